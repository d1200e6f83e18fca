package models

import (
	"time"
)

type OriginType string

const (
	OriginShop OriginType = "shop"
	OriginWeb  OriginType = "web"
)

// Prefix returns the display-id prefix for the origin (S-7, W-12).
func (o OriginType) Prefix() string {
	if o == OriginShop {
		return "S"
	}
	return "W"
}

func (o OriginType) Valid() bool {
	return o == OriginShop || o == OriginWeb
}

type GuestStatus string

const (
	StatusWaiting GuestStatus = "waiting"
	StatusCalling GuestStatus = "calling"
	StatusArrived GuestStatus = "arrived"
	StatusAbsent  GuestStatus = "absent"
)

type SeatPreference string

const (
	SeatAnywhere SeatPreference = "anywhere"
	SeatCounter  SeatPreference = "counter"
	SeatTable    SeatPreference = "table"
	SeatTatami   SeatPreference = "tatami"
)

func (p SeatPreference) Valid() bool {
	switch p {
	case SeatAnywhere, SeatCounter, SeatTable, SeatTatami:
		return true
	}
	return false
}

// Guest is one waiting party. A guest lives in the active queue from
// registration until completion or removal; there is no completed status
// stored anywhere, completion removes the record.
type Guest struct {
	DisplayID    string         `json:"display_id"`
	Origin       OriginType     `json:"origin"`
	Adults       int            `json:"adults"`
	Children     int            `json:"children"`
	Infants      int            `json:"infants"`
	Pref         SeatPreference `json:"seat_preference"`
	Status       GuestStatus    `json:"status"`
	RegisteredAt time.Time      `json:"registered_at"`
	CalledAt     *time.Time     `json:"called_at,omitempty"`
	ArrivedAt    *time.Time     `json:"arrived_at,omitempty"`
	AbsentAt     *time.Time     `json:"absent_at,omitempty"`

	// CancelToken authorizes a web guest to cancel its own ticket. Issued at
	// registration, never shown on boards or dashboards.
	CancelToken string `json:"cancel_token,omitempty"`
}

// PartySize is the registration input for one party.
type PartySize struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Infants  int `json:"infants"`
}

func (p PartySize) Valid() bool {
	return p.Adults >= 1 && p.Children >= 0 && p.Infants >= 0
}

func (p PartySize) Total() int {
	return p.Adults + p.Children + p.Infants
}
