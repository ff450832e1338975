package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrRecipientNotFound  = errors.New("recipient not found")
	ErrEmailExists        = errors.New("email already registered")
	ErrRelationExists     = errors.New("relation already exists")
	ErrRelationNotFound   = errors.New("relation not found")
	ErrSelfRelation       = errors.New("user can't be linked to themselves")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid session token")
	ErrInvalidSelector    = errors.New("invalid recipient selector")
	ErrNoProviders        = errors.New("no push providers configured")
)
