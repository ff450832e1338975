package domain

type ProviderKind string

const (
	ProviderFCM  ProviderKind = "fcm"
	ProviderExpo ProviderKind = "expo"
)

// UserToken is the registered push token of one user.
type UserToken struct {
	UserId string `bson:"_id"`
	Token  string `bson:"token"`
}
