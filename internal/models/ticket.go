package models

import "time"

// Status is the repair-request lifecycle state.
type Status string

const (
	StatusNew            Status = "New"
	StatusInRepair       Status = "InRepair"
	StatusReadyForPickup Status = "ReadyForPickup"
	StatusAwaitingParts  Status = "AwaitingParts"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusInRepair, StatusReadyForPickup, StatusAwaitingParts:
		return true
	}
	return false
}

type Ticket struct {
	ID             int64      `json:"id"`
	StartDate      time.Time  `json:"startDate"`
	EquipmentType  string     `json:"equipmentType"`
	EquipmentModel string     `json:"equipmentModel"`
	ProblemText    string     `json:"problemText"`
	Status         Status     `json:"status"`
	CompletionDate *time.Time `json:"completionDate,omitempty"`
	ClientID       int64      `json:"clientId"`
	MasterID       *int64     `json:"masterId,omitempty"`

	// Joined fields, populated by list/get queries.
	ClientName  string `json:"clientName,omitempty"`
	ClientPhone string `json:"clientPhone,omitempty"`
	MasterName  string `json:"masterName,omitempty"`
}

type Comment struct {
	ID         int64     `json:"id"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"createdAt"`
	AuthorID   int64     `json:"authorId"`
	TicketID   int64     `json:"ticketId"`
	AuthorName string    `json:"authorName,omitempty"`
}

// Statistics is the manager dashboard aggregate.
type Statistics struct {
	TotalTickets     int `json:"totalTickets"`
	CompletedTickets int `json:"completedTickets"`
	// AvgRepairDays is the average days from start to completion over
	// completed tickets, rounded to one decimal. Zero when nothing has
	// completed yet.
	AvgRepairDays float64      `json:"avgRepairDays"`
	ByType        []GroupCount `json:"byType"`
	ByStatus      []GroupCount `json:"byStatus"`
}

type GroupCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}
