// Package audit holds the audit-plan data model: the closed option lists the
// form offers, the inputs an operator assembles, and the immutable record
// produced by a successful generation.
//
// It imports nothing from internal/ except risk, so it can be used by the
// document, planner and api layers alike.
package audit

import "strings"

// ─── SECTORS ──────────────────────────────────────────────────────────────────

// Sector is one of the fixed industry sectors offered by the form.
type Sector string

const (
	SectorTechSoftware       Sector = "Technology - Software"
	SectorTechHardware       Sector = "Technology - Hardware"
	SectorHospitals          Sector = "Healthcare - Hospitals"
	SectorPharmaceuticals    Sector = "Healthcare - Pharmaceuticals"
	SectorBanking            Sector = "Finance - Banking"
	SectorInsurance          Sector = "Finance - Insurance"
	SectorAutomotive         Sector = "Manufacturing - Automotive"
	SectorElectronics        Sector = "Manufacturing - Electronics"
	SectorEcommerce          Sector = "Retail - E-commerce"
	SectorBrickAndMortar     Sector = "Retail - Brick & Mortar"
	SectorOilAndGas          Sector = "Energy - Oil & Gas"
	SectorRenewable          Sector = "Energy - Renewable"
	SectorCommercialProperty Sector = "Real Estate - Commercial"
	SectorResidential        Sector = "Real Estate - Residential"
	SectorTelecom            Sector = "Telecommunications"
	SectorLogistics          Sector = "Transportation - Logistics"
	SectorAirlines           Sector = "Transportation - Airlines"
	SectorOther              Sector = "Other"
)

// Sectors lists every sector in form order.
var Sectors = []Sector{
	SectorTechSoftware, SectorTechHardware,
	SectorHospitals, SectorPharmaceuticals,
	SectorBanking, SectorInsurance,
	SectorAutomotive, SectorElectronics,
	SectorEcommerce, SectorBrickAndMortar,
	SectorOilAndGas, SectorRenewable,
	SectorCommercialProperty, SectorResidential,
	SectorTelecom,
	SectorLogistics, SectorAirlines,
	SectorOther,
}

// Valid reports whether s is in the closed sector list.
func (s Sector) Valid() bool { return contains(Sectors, s) }

// ─── ROLES ────────────────────────────────────────────────────────────────────

// Role is an audit team member's role.
type Role string

const (
	RoleSeniorAuditor     Role = "Senior Auditor"
	RoleLeadAuditor       Role = "Lead Auditor"
	RoleInternalAuditor   Role = "Internal Auditor"
	RoleExternalAuditor   Role = "External Auditor"
	RoleComplianceOfficer Role = "Compliance Officer"
	RoleRiskManager       Role = "Risk Manager"
	RoleITAuditor         Role = "IT Auditor"
	RoleForensicAuditor   Role = "Forensic Auditor"
	RoleTaxAuditor        Role = "Tax Auditor"
	RoleOperationsAuditor Role = "Operations Auditor"
)

// Roles lists every role in form order. The first entry is the default.
var Roles = []Role{
	RoleSeniorAuditor,
	RoleLeadAuditor,
	RoleInternalAuditor,
	RoleExternalAuditor,
	RoleComplianceOfficer,
	RoleRiskManager,
	RoleITAuditor,
	RoleForensicAuditor,
	RoleTaxAuditor,
	RoleOperationsAuditor,
}

// DefaultRole is assigned to new rows and to unknown role values.
const DefaultRole = RoleSeniorAuditor

// Valid reports whether r is in the closed role list.
func (r Role) Valid() bool { return contains(Roles, r) }

// ParseRole returns the matching role, or DefaultRole when s is empty or
// unknown.
func ParseRole(s string) Role {
	if r := Role(s); r.Valid() {
		return r
	}
	return DefaultRole
}

// ─── COMPLIANCE REQUIREMENTS ─────────────────────────────────────────────────

// ComplianceRequirement is a reporting or regulatory framework in scope.
type ComplianceRequirement string

const (
	ComplianceIFRS     ComplianceRequirement = "IFRS"
	ComplianceUSGAAP   ComplianceRequirement = "US GAAP"
	ComplianceSOX      ComplianceRequirement = "SOX"
	ComplianceGDPR     ComplianceRequirement = "GDPR"
	ComplianceHIPAA    ComplianceRequirement = "HIPAA"
	CompliancePCIDSS   ComplianceRequirement = "PCI DSS"
	ComplianceISO27001 ComplianceRequirement = "ISO 27001"
	ComplianceOther    ComplianceRequirement = "Other"
)

// ComplianceRequirements lists every requirement in form order.
var ComplianceRequirements = []ComplianceRequirement{
	ComplianceIFRS,
	ComplianceUSGAAP,
	ComplianceSOX,
	ComplianceGDPR,
	ComplianceHIPAA,
	CompliancePCIDSS,
	ComplianceISO27001,
	ComplianceOther,
}

// Valid reports whether c is in the closed list.
func (c ComplianceRequirement) Valid() bool { return contains(ComplianceRequirements, c) }

// ─── FOCUS AREAS ──────────────────────────────────────────────────────────────

// FocusArea is an area the audit concentrates on.
type FocusArea string

const (
	FocusFinancialControls     FocusArea = "Financial Controls"
	FocusOperationalEfficiency FocusArea = "Operational Efficiency"
	FocusITSecurity            FocusArea = "IT Security"
	FocusCompliance            FocusArea = "Compliance"
	FocusRiskManagement        FocusArea = "Risk Management"
	FocusInternalControls      FocusArea = "Internal Controls"
)

// FocusAreas lists every focus area in form order.
var FocusAreas = []FocusArea{
	FocusFinancialControls,
	FocusOperationalEfficiency,
	FocusITSecurity,
	FocusCompliance,
	FocusRiskManagement,
	FocusInternalControls,
}

// Valid reports whether f is in the closed list.
func (f FocusArea) Valid() bool { return contains(FocusAreas, f) }

// ─── HELPERS ──────────────────────────────────────────────────────────────────

func contains[T comparable](list []T, v T) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// uniq drops repeated values, keeping first-seen order.
func uniq[T comparable](values []T) []T {
	if values == nil {
		return nil
	}
	seen := make(map[T]struct{}, len(values))
	out := make([]T, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func joinStrings[T ~string](values []T, sep string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, sep)
}
