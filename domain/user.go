package domain

type User struct {
	Id           string `bson:"_id" json:"id"`
	Name         string `bson:"name" json:"name"`
	Email        string `bson:"email" json:"email"`
	PasswordHash string `bson:"password" json:"-"`
	Token        string `bson:"token,omitempty" json:"token,omitempty"`
	IsPatient    bool   `bson:"isPatient" json:"isPatient"`
	Created      int64  `bson:"created" json:"created"`
	Updated      int64  `bson:"updated" json:"updated"`
}

// Profile is the part of a user that can be shown to other users.
type Profile struct {
	Id        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	IsPatient bool   `json:"isPatient"`
}

func (u User) Profile() Profile {
	return Profile{
		Id:        u.Id,
		Name:      u.Name,
		Email:     u.Email,
		IsPatient: u.IsPatient,
	}
}
