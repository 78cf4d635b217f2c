package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CaseStatus tracks where a case is in its lifecycle
type CaseStatus string

// Case lifecycle states. A case is created not_started, becomes active on the
// first argument, and ends resolved once a verdict is delivered. Cases left
// idle long enough are adjourned by the scheduler.
const (
	CaseStatusNotStarted CaseStatus = "not_started"
	CaseStatusActive     CaseStatus = "active"
	CaseStatusAdjourned  CaseStatus = "adjourned"
	CaseStatusResolved   CaseStatus = "resolved"
)

// Role identifies which side of the courtroom a participant argues for
type Role string

// Litigation roles. RoleNotStarted means the user has not yet picked a side.
const (
	RolePlaintiff  Role = "plaintiff"
	RoleDefendant  Role = "defendant"
	RoleNotStarted Role = "not_started"
)

// Opposite returns the other side of the courtroom
func (r Role) Opposite() Role {
	if r == RolePlaintiff {
		return RoleDefendant
	}
	return RolePlaintiff
}

// Argument message subtypes
const (
	ArgumentTypeOpening = "opening"
	ArgumentTypeUser    = "user"
	ArgumentTypeCounter = "counter"
	ArgumentTypeClosing = "closing"
)

// ArgumentItem is a single entry in a case transcript. Entries are append
// only; an empty UserID marks an AI-generated argument. Seq is assigned in
// submission order and breaks ties when timestamps collide.
type ArgumentItem struct {
	Type      string    `json:"type" bson:"type"`
	Content   string    `json:"content" bson:"content"`
	UserID    string    `json:"user_id,omitempty" bson:"userID,omitempty"`
	Role      Role      `json:"user_role" bson:"role"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
	Seq       int       `json:"seq,omitempty" bson:"seq,omitempty"`
}

// IsAI reports whether this argument was generated by opposing counsel
func (a ArgumentItem) IsAI() bool {
	return a.UserID == ""
}

// Case holds the structure for the cases collection in mongo
type Case struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id"`
	CNR                string             `json:"cnr" bson:"cnr"`
	UserID             primitive.ObjectID `json:"user_id" bson:"userID"`
	Title              string             `json:"title" bson:"title"`
	Details            string             `json:"case_text" bson:"details"`
	Status             CaseStatus         `json:"status" bson:"status"`
	UserRole           Role               `json:"user_role" bson:"userRole"`
	PlaintiffArguments []ArgumentItem     `json:"plaintiff_arguments" bson:"plaintiffArguments"`
	DefendantArguments []ArgumentItem     `json:"defendant_arguments" bson:"defendantArguments"`
	Verdict            string             `json:"verdict,omitempty" bson:"verdict,omitempty"`
	Analysis           string             `json:"analysis,omitempty" bson:"analysis,omitempty"`
	CreatedAt          time.Time          `json:"created_at" bson:"createdAt"`
	UpdatedAt          time.Time          `json:"updated_at" bson:"updatedAt"`
}

// NextSeq returns the sequence number for the next argument appended to
// this case
func (c *Case) NextSeq() int {
	return len(c.PlaintiffArguments) + len(c.DefendantArguments) + 1
}

// UserArgumentCount counts the user's own filings across both sides.
// The user's opening counts; closing statements and AI entries do not.
func (c *Case) UserArgumentCount() int {
	n := 0
	for _, list := range [][]ArgumentItem{c.PlaintiffArguments, c.DefendantArguments} {
		for _, a := range list {
			if !a.IsAI() && a.Type != ArgumentTypeClosing {
				n++
			}
		}
	}
	return n
}

// CaseHistory is the role-partitioned transcript returned by the history
// endpoint
type CaseHistory struct {
	PlaintiffArguments []ArgumentItem `json:"plaintiff_arguments"`
	DefendantArguments []ArgumentItem `json:"defendant_arguments"`
	Verdict            string         `json:"verdict,omitempty"`
}

// CaseSummary is the trimmed listing row for the case index
type CaseSummary struct {
	ID        string     `json:"id"`
	CNR       string     `json:"cnr"`
	Title     string     `json:"title"`
	Status    CaseStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}
