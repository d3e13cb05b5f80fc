package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Submission statuses. Transitions are governed by services.Advance.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusPaid     = "PAID"
	StatusRejected = "REJECTED"
)

// Verification verdicts returned by the oracle.
const (
	VerdictAuthentic    = "AUTHENTIC"
	VerdictSuspicious   = "SUSPICIOUS"
	VerdictInconclusive = "INCONCLUSIVE"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type VerificationSource struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// VerificationResult is stored as a JSON column on the submission, not a
// table of its own: there is at most one per submission and re-running the
// oracle overwrites it wholesale.
type VerificationResult struct {
	Score      int                  `json:"score"`
	Verdict    string               `json:"verdict"`
	Findings   string               `json:"findings"`
	Sources    []VerificationSource `json:"sources"`
	ManualNote string               `json:"manualNote,omitempty"`
	VerifiedBy string               `json:"verifiedBy,omitempty"`
}

type DriveSubmission struct {
	gorm.Model
	AgentID        uint      `json:"agentId" gorm:"index"`
	AgentName      string    `json:"agentName"` // snapshot at submission time
	AgentStatus    string    `json:"agentStatus"`
	SubmissionDate time.Time `json:"submissionDate" gorm:"index"`
	Status         string    `json:"status" gorm:"type:varchar(10);default:PENDING;index"`

	PropertyName     string `json:"propertyName"`
	PropertyAddress  string `json:"propertyAddress"`
	StateLocation    string `json:"stateLocation"`
	PropertyCategory string `json:"propertyCategory"` // Residential, Commercial
	PropertyType     string `json:"propertyType"`
	NoOfUnits        int    `json:"noOfUnits"`
	OccupancyRate    int    `json:"occupancyRate"`
	MeteringType     string `json:"meteringType"`

	Coordinates   datatypes.JSON `json:"coordinates"`
	PropertyPhoto string         `json:"propertyPhoto"`

	LandlordName   string `json:"landlordName"`
	ManagementType string `json:"managementType"` // Individual, Company
	ContactPhone   string `json:"contactPhone"`

	InterestLevel      string         `json:"interestLevel"` // High, Medium, Low
	FeaturesInterested datatypes.JSON `json:"featuresInterested"`
	SubscriptionType   string         `json:"subscriptionType"`
	MarketingChannels  datatypes.JSON `json:"marketingChannels"`
	Feedback           string         `json:"feedback"`

	// Computed once at creation (units x flat rate), never recomputed.
	EstimatedCommission int64 `json:"estimatedCommission"`

	Verification datatypes.JSON `json:"verification"`
}

func (s *DriveSubmission) GetCoordinates() *Coordinates {
	if len(s.Coordinates) == 0 {
		return nil
	}
	var c Coordinates
	if err := json.Unmarshal(s.Coordinates, &c); err != nil {
		return nil
	}
	return &c
}

func (s *DriveSubmission) SetCoordinates(c Coordinates) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	s.Coordinates = raw
	return nil
}

func (s *DriveSubmission) GetVerification() *VerificationResult {
	if len(s.Verification) == 0 {
		return nil
	}
	var v VerificationResult
	if err := json.Unmarshal(s.Verification, &v); err != nil {
		return nil
	}
	return &v
}

// SetVerification replaces any stored result wholesale.
func (s *DriveSubmission) SetVerification(v VerificationResult) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.Verification = raw
	return nil
}

// Custom JSON marshaling so JSON columns render as real arrays/objects,
// never as base64 blobs or null
func (s *DriveSubmission) MarshalJSON() ([]byte, error) {
	type Alias DriveSubmission
	aux := &struct {
		Coordinates        *Coordinates        `json:"coordinates,omitempty"`
		FeaturesInterested []string            `json:"featuresInterested"`
		MarketingChannels  []string            `json:"marketingChannels"`
		Verification       *VerificationResult `json:"verification,omitempty"`
		*Alias
	}{
		FeaturesInterested: []string{},
		MarketingChannels:  []string{},
		Alias:              (*Alias)(s),
	}

	aux.Coordinates = s.GetCoordinates()
	aux.Verification = s.GetVerification()

	if s.FeaturesInterested != nil {
		var features []string
		if err := json.Unmarshal(s.FeaturesInterested, &features); err == nil {
			aux.FeaturesInterested = features
		}
	}

	if s.MarketingChannels != nil {
		var channels []string
		if err := json.Unmarshal(s.MarketingChannels, &channels); err == nil {
			aux.MarketingChannels = channels
		}
	}

	return json.Marshal(aux)
}
