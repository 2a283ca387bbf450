package constant

// Document lifecycle statuses. A document stays in "processing" until
// every chunk has been embedded and stored; a failed ingestion leaves
// it there so nothing downstream trusts a half-indexed document.
const (
	DocumentStatusProcessing   = "processing"
	DocumentStatusValid        = "valid"
	DocumentStatusExpiringSoon = "expiring_soon"
	DocumentStatusExpired      = "expired"
)

// Checklist rule statuses. Suggested rules come from the AI and wait
// for user approval before they participate in gap computation.
const (
	RuleStatusActive    = "active"
	RuleStatusSuggested = "suggested"
	RuleStatusInactive  = "inactive"
)

// Gap statuses per required document type. A gap inherits "processing"
// when its best candidate document has no expiry date and is still
// being ingested.
const (
	GapStatusMissing      = "missing"
	GapStatusProcessing   = "processing"
	GapStatusValid        = "valid"
	GapStatusExpiringSoon = "expiring_soon"
	GapStatusExpired      = "expired"
)

const (
	ChatMessageRoleUser  = "user"
	ChatMessageRoleModel = "assistant"
)

const MimeTypeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Ingestion guard rails, mirrored from production configuration.
const (
	MaxFileSizeDocx     = 10 * 1024 * 1024
	MaxFileSizePdfImage = 20 * 1024 * 1024
	MinExtractedTextLen = 10
)

// Gap window: documents expiring within this many days are flagged.
const ExpiringSoonWindowDays = 30
