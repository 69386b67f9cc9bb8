package models

// Team represents a team in the system
type Team struct {
	ID          ID          `json:"id"`
	Name        Opt[string] `json:"name"`
	Description Opt[string] `json:"description"`
	MemberCount Opt[int64]  `json:"member_count"`
	CreatedAt   Timestamp   `json:"created_at"`
}
