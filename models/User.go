package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleAgent = "AGENT"
	RoleAdmin = "ADMIN"
)

type User struct {
	gorm.Model
	FullName      string `json:"fullName"`
	Email         string `json:"email" gorm:"uniqueIndex"`
	Phone         string `json:"phone"`
	StateLocation string `json:"state"`
	Password      string `json:"-"`
	Role          string `json:"role" gorm:"type:varchar(10);default:AGENT;index"` // AGENT, ADMIN

	// Payout details, optional until the agent completes their profile
	BankName          string `json:"bankName"`
	BankAccountNumber string `json:"accountNumber"`
	BankAccountName   string `json:"accountName"`

	// Agreement gate. Signed never reverts; timestamp and IP are written
	// once, on first signing. The IP is whatever the proxy forwarded and
	// carries no evidential weight.
	AgreementSigned    *bool      `json:"agreementSigned"`
	AgreementTimestamp *time.Time `json:"agreementTimestamp"`
	AgreementIP        string     `json:"agreementIp"`
}

func (u *User) HasSignedAgreement() bool {
	return u.AgreementSigned != nil && *u.AgreementSigned
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
