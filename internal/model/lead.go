// Package model はドメインモデルを定義する。
package model

import "time"

// Sector はリードの業種を表す。12種類の閉じた集合。
type Sector string

const (
	SectorHealthcare    Sector = "Healthcare"
	SectorRealEstate    Sector = "Real Estate"
	SectorSaaS          Sector = "SaaS"
	SectorEducation     Sector = "Education"
	SectorEcommerce     Sector = "E-commerce"
	SectorFinance       Sector = "Finance"
	SectorManufacturing Sector = "Manufacturing"
	SectorRetail        Sector = "Retail"
	SectorHospitality   Sector = "Hospitality"
	SectorRestaurant    Sector = "Restaurant"
	SectorTechnology    Sector = "Technology"
	SectorOther         Sector = "Other"
)

// AllSectors は全業種のリストを定義順で返す。
func AllSectors() []Sector {
	return []Sector{
		SectorHealthcare,
		SectorRealEstate,
		SectorSaaS,
		SectorEducation,
		SectorEcommerce,
		SectorFinance,
		SectorManufacturing,
		SectorRetail,
		SectorHospitality,
		SectorRestaurant,
		SectorTechnology,
		SectorOther,
	}
}

// IsValid は業種の値が定義済みのいずれかであるかを返す。
func (s Sector) IsValid() bool {
	for _, v := range AllSectors() {
		if s == v {
			return true
		}
	}
	return false
}

// LeadStatus はリードのパイプライン上のステータスを表す。7種類の閉じた集合。
type LeadStatus string

const (
	StatusNew           LeadStatus = "New"
	StatusContacted     LeadStatus = "Contacted"
	StatusInterested    LeadStatus = "Interested"
	StatusNotInterested LeadStatus = "Not Interested"
	StatusFollowUp      LeadStatus = "Follow-Up"
	StatusConverted     LeadStatus = "Converted"
	StatusLost          LeadStatus = "Lost"
)

// AllLeadStatuses は全ステータスのリストを定義順で返す。
func AllLeadStatuses() []LeadStatus {
	return []LeadStatus{
		StatusNew,
		StatusContacted,
		StatusInterested,
		StatusNotInterested,
		StatusFollowUp,
		StatusConverted,
		StatusLost,
	}
}

// IsValid はステータスの値が定義済みのいずれかであるかを返す。
func (s LeadStatus) IsValid() bool {
	for _, v := range AllLeadStatuses() {
		if s == v {
			return true
		}
	}
	return false
}

// LeadSource はリードの獲得チャネルを表す。6種類の閉じた集合。
type LeadSource string

const (
	SourceGoogleMaps LeadSource = "Google Maps"
	SourceLinkedIn   LeadSource = "LinkedIn"
	SourceWebsite    LeadSource = "Website"
	SourceReferral   LeadSource = "Referral"
	SourceColdEmail  LeadSource = "Cold Email"
	SourceOther      LeadSource = "Other"
)

// AllLeadSources は全獲得チャネルのリストを定義順で返す。
func AllLeadSources() []LeadSource {
	return []LeadSource{
		SourceGoogleMaps,
		SourceLinkedIn,
		SourceWebsite,
		SourceReferral,
		SourceColdEmail,
		SourceOther,
	}
}

// IsValid は獲得チャネルの値が定義済みのいずれかであるかを返す。
func (s LeadSource) IsValid() bool {
	for _, v := range AllLeadSources() {
		if s == v {
			return true
		}
	}
	return false
}

// Interaction はリードへの1回の対応記録を表す。
// interaction_historyは追記専用であり、既存エントリの編集・削除は行わない。
type Interaction struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Notes     string    `json:"notes,omitempty"`
}

// Lead は営業パイプラインで追跡する見込み顧客レコードを表す。
type Lead struct {
	ID           string
	CompanyName  string
	Sector       Sector
	WebsiteURL   string
	Email        string
	MobileNumber string
	FullAddress  string
	Source       LeadSource
	Status       LeadStatus

	LastContactedDate *time.Time
	LatestReplyNotes  string
	CallScheduleDate  *time.Time
	NextFollowUpDate  *time.Time

	// CreatedBy は作成後イミュータブル。AssignedToのみ変更可能。
	CreatedBy  Founder
	AssignedTo Founder

	CreatedAt time.Time
	UpdatedAt time.Time

	InteractionHistory []Interaction
	IsDeleted          bool
}

// DashboardStats は削除されていないリード全体に対する集計統計を表す。
// 各enumバケットは件数ゼロでも必ず含まれる。
type DashboardStats struct {
	TotalLeads    int
	LeadsByStatus map[LeadStatus]int
	LeadsBySector map[Sector]int
	LeadsByOwner  map[Founder]int
	UpcomingCalls []*Lead
	RecentUpdates []*Lead
}
