package domain

// Relation is a directed caretaker -> patient edge, unique per ordered pair.
type Relation struct {
	Id          string `bson:"_id" json:"id"`
	CaretakerId string `bson:"caretakerId" json:"caretakerId"`
	PatientId   string `bson:"patientId" json:"patientId"`
	Created     int64  `bson:"created" json:"created"`
}

// RelationFilter selects relations; empty fields match anything.
type RelationFilter struct {
	CaretakerId string
	PatientId   string
}

func (f RelationFilter) IsEmpty() bool {
	return f.CaretakerId == "" && f.PatientId == ""
}
