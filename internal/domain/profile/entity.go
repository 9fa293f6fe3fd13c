package profile

import (
	"time"

	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/user"
)

// DealStage is one of the fixed ordered funnel stages.
type DealStage string

const (
	StageProspecting   DealStage = "Prospecting"
	StageQualification DealStage = "Qualification"
	StageProposal      DealStage = "Proposal"
	StageNegotiation   DealStage = "Negotiation"
	StageClosedWon     DealStage = "Closed Won"
	StageClosedLost    DealStage = "Closed Lost"
)

// Stages lists the funnel stages in pipeline order.
var Stages = []DealStage{
	StageProspecting,
	StageQualification,
	StageProposal,
	StageNegotiation,
	StageClosedWon,
	StageClosedLost,
}

// IsValidStage reports whether s is one of the fixed funnel stages.
func IsValidStage(s DealStage) bool {
	for _, stage := range Stages {
		if stage == s {
			return true
		}
	}
	return false
}

// PipelineDeal is a sales opportunity snapshot. The profile's pipeline list
// is the single source of truth for deal snapshots; attendance day reports
// hold deal ids only.
type PipelineDeal struct {
	ID          string    `firestore:"id" json:"id"`
	Product     string    `firestore:"product" json:"product"`
	Stage       DealStage `firestore:"stage" json:"stage"`
	Value       float64   `firestore:"value" json:"value"`
	Probability int       `firestore:"probability" json:"probability"` // 0-100
	UpdatedAt   time.Time `firestore:"updated_at" json:"updated_at"`
}

// Customer is a roster contact at a hospital.
type Customer struct {
	Name       string `firestore:"name" json:"name"`
	Hospital   string `firestore:"hospital" json:"hospital"`
	Department string `firestore:"department" json:"department"`
	Phone      string `firestore:"phone,omitempty" json:"phone,omitempty"`
}

// UserProfile is the per-user hub document: roster, role, pipeline memory
// and gamification counters.
type UserProfile struct {
	ID           string     `firestore:"-" json:"id"`
	Email        string     `firestore:"email" json:"email"` // immutable identity
	Name         string     `firestore:"name" json:"name"`
	Area         string     `firestore:"area,omitempty" json:"area,omitempty"`
	StartDate    string     `firestore:"start_date,omitempty" json:"start_date,omitempty"`
	PasswordHash string     `firestore:"password_hash,omitempty" json:"-"`
	Role         user.Role  `firestore:"role" json:"role"`
	Approved     bool       `firestore:"approved" json:"approved"` // gates login
	ReportsTo    string     `firestore:"reports_to,omitempty" json:"reports_to,omitempty"`
	Hospitals    []string   `firestore:"hospitals" json:"hospitals"`
	Customers    []Customer `firestore:"customers" json:"customers"`

	// Pipeline memory, keyed by deal id.
	ActivePipeline []PipelineDeal `firestore:"active_pipeline" json:"active_pipeline"`

	// Per-user override for the speech model credential.
	VoiceAPIKey string `firestore:"voice_api_key,omitempty" json:"-"`

	// Gamification counters. Level is always the image of XP under the
	// threshold function; never written independently.
	XP             int    `firestore:"xp" json:"xp"`
	Level          int    `firestore:"level" json:"level"`
	Streak         int    `firestore:"streak" json:"streak"`
	LastActiveDate string `firestore:"last_active_date,omitempty" json:"last_active_date,omitempty"` // YYYY-MM-DD

	CreatedAt time.Time `firestore:"created_at" json:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at" json:"updated_at"`
}

// Deal returns the pipeline deal with the given id, if present.
func (p *UserProfile) Deal(id string) (PipelineDeal, bool) {
	for _, d := range p.ActivePipeline {
		if d.ID == id {
			return d, true
		}
	}
	return PipelineDeal{}, false
}

// Actor builds the service-layer actor identity for this profile.
func (p *UserProfile) Actor() user.Actor {
	return user.Actor{ID: p.ID, Name: p.Name, Role: p.Role}
}
