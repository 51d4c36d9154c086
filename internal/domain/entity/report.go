package entity

// ReportKind identifies one of the monthly report pipelines.
type ReportKind string

const (
	ReportKindSimple    ReportKind = "simple"
	ReportKindTransport ReportKind = "transport"
)

// ReportKinds lists every report pipeline.
var ReportKinds = []ReportKind{ReportKindSimple, ReportKindTransport}

// IsValid reports whether the kind is known.
func (k ReportKind) IsValid() bool {
	return k == ReportKindSimple || k == ReportKindTransport
}

// EligibleAccountType returns the account type whose users receive this report.
func (k ReportKind) EligibleAccountType() AccountType {
	if k == ReportKindTransport {
		return AccountTypeTransport
	}
	return AccountTypeSimple
}

// ReportKindFor returns the report pipeline that applies to an account type.
func ReportKindFor(accountType AccountType) ReportKind {
	if accountType == AccountTypeTransport {
		return ReportKindTransport
	}
	return ReportKindSimple
}
