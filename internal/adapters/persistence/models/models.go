package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Auth tables
// ============================================================

// User represents users table
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	FullName  string         `gorm:"size:100" json:"full_name"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:30;default:'relationship-manager'" json:"role"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name,omitempty"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Case-file tables
// ============================================================

// Checklist is the client-declared snapshot of physical attachments.
// It is advisory: the server records it and never re-validates it.
type Checklist struct {
	HasProposal     bool   `gorm:"default:false" json:"has_proposal"`
	HasContract     bool   `gorm:"default:false" json:"has_contract"`
	HasPaymentOrder bool   `gorm:"default:false" json:"has_payment_order"`
	HasInvoice      bool   `gorm:"default:false" json:"has_invoice"`
	HasHandoverNote bool   `gorm:"default:false" json:"has_handover_note"`
	Other           string `gorm:"size:255" json:"other"`
}

// ActionRecord captures who performed a lifecycle action, when, and any note
type ActionRecord struct {
	By   string     `gorm:"size:100" json:"by,omitempty"`
	At   *time.Time `json:"at,omitempty"`
	Note string     `gorm:"size:500" json:"note,omitempty"`
}

// Set reports whether the record has been written
func (r ActionRecord) Set() bool {
	return r.At != nil
}

// RejectionRecord captures one rejection with its reason
type RejectionRecord struct {
	By     string     `gorm:"size:100" json:"by,omitempty"`
	Reason string     `gorm:"size:500" json:"reason,omitempty"`
	At     *time.Time `json:"at,omitempty"`
}

// Set reports whether the record has been written
func (r RejectionRecord) Set() bool {
	return r.At != nil
}

// CaseFile represents case_files table — one disbursement record
type CaseFile struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	AccountNo    string     `gorm:"size:50;not null;index" json:"account_no"`
	CIF          string     `gorm:"size:50" json:"cif"`
	CustomerName string     `gorm:"size:150;not null;index" json:"customer_name"`
	Amount       *float64   `json:"amount"`
	Currency     string     `gorm:"size:10" json:"currency"`
	DisbursedAt  *time.Time `gorm:"index" json:"disbursed_at"`
	Department   string     `gorm:"size:100;index" json:"department"`
	Manager      string     `gorm:"size:100;index" json:"manager"`
	ContractNo   string     `gorm:"size:50" json:"contract_no"`
	Note         string     `gorm:"size:1000" json:"note"`

	Checklist Checklist `gorm:"embedded;embeddedPrefix:checklist_" json:"checklist"`

	Status string `gorm:"size:30;not null;index;default:'new'" json:"status"`

	Handover   ActionRecord `gorm:"embedded;embeddedPrefix:handover_" json:"handover"`
	Receipt    ActionRecord `gorm:"embedded;embeddedPrefix:receipt_" json:"receipt"`
	Return     ActionRecord `gorm:"embedded;embeddedPrefix:return_" json:"return"`
	DocReceipt ActionRecord `gorm:"embedded;embeddedPrefix:doc_receipt_" json:"doc_receipt"`

	BoardRejection  RejectionRecord `gorm:"embedded;embeddedPrefix:board_rejection_" json:"board_rejection"`
	CreditRejection RejectionRecord `gorm:"embedded;embeddedPrefix:credit_rejection_" json:"credit_rejection"`

	// Version guards against concurrent transitions of the same case file
	Version int `gorm:"not null;default:0" json:"version"`

	CreatedBy string         `gorm:"size:100" json:"created_by"`
	UpdatedBy string         `gorm:"size:100" json:"updated_by"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (CaseFile) TableName() string {
	return "case_files"
}

// CaseFileResponse DTO
type CaseFileResponse struct {
	ID           string     `json:"id"`
	AccountNo    string     `json:"account_no"`
	CIF          string     `json:"cif,omitempty"`
	CustomerName string     `json:"customer_name"`
	Amount       *float64   `json:"amount,omitempty"`
	Currency     string     `json:"currency,omitempty"`
	DisbursedAt  *time.Time `json:"disbursed_at,omitempty"`
	Department   string     `json:"department,omitempty"`
	Manager      string     `json:"manager,omitempty"`
	ContractNo   string     `json:"contract_no,omitempty"`
	Note         string     `json:"note,omitempty"`
	Checklist    Checklist  `json:"checklist"`
	Status       string     `json:"status"`

	Handover   *ActionRecord `json:"handover,omitempty"`
	Receipt    *ActionRecord `json:"receipt,omitempty"`
	Return     *ActionRecord `json:"return,omitempty"`
	DocReceipt *ActionRecord `json:"doc_receipt,omitempty"`

	BoardRejection  *RejectionRecord `json:"board_rejection,omitempty"`
	CreditRejection *RejectionRecord `json:"credit_rejection,omitempty"`

	CreatedBy string    `json:"created_by,omitempty"`
	UpdatedBy string    `json:"updated_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (cf *CaseFile) ToResponse() *CaseFileResponse {
	resp := &CaseFileResponse{
		ID:           cf.ID,
		AccountNo:    cf.AccountNo,
		CIF:          cf.CIF,
		CustomerName: cf.CustomerName,
		Amount:       cf.Amount,
		Currency:     cf.Currency,
		DisbursedAt:  cf.DisbursedAt,
		Department:   cf.Department,
		Manager:      cf.Manager,
		ContractNo:   cf.ContractNo,
		Note:         cf.Note,
		Checklist:    cf.Checklist,
		Status:       cf.Status,
		CreatedBy:    cf.CreatedBy,
		UpdatedBy:    cf.UpdatedBy,
		CreatedAt:    cf.CreatedAt,
		UpdatedAt:    cf.UpdatedAt,
	}

	if cf.Handover.Set() {
		r := cf.Handover
		resp.Handover = &r
	}
	if cf.Receipt.Set() {
		r := cf.Receipt
		resp.Receipt = &r
	}
	if cf.Return.Set() {
		r := cf.Return
		resp.Return = &r
	}
	if cf.DocReceipt.Set() {
		r := cf.DocReceipt
		resp.DocReceipt = &r
	}
	if cf.BoardRejection.Set() {
		r := cf.BoardRejection
		resp.BoardRejection = &r
	}
	if cf.CreditRejection.Set() {
		r := cf.CreditRejection
		resp.CreditRejection = &r
	}

	return resp
}

// AutoMigrate migrates all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&CaseFile{},
	)
}
