package ingest

// Canonical field keys produced by header translation.
const (
	fieldDate         = "date"
	fieldTime         = "time"
	fieldCenterName   = "centerName"
	fieldTotal        = "total"
	fieldCompletion   = "completion"
	fieldClosed       = "closed"
	fieldRemaining    = "remaining"
	fieldEfficiency   = "efficiency"
	fieldCapacity     = "capacity"
	fieldBacklog      = "backlog"
	fieldQualityScore = "quality_score"
	fieldReceipt      = "receipt"
	fieldAssigned     = "assigned"
	fieldOutput       = "output"
)

// headerTable maps the spreadsheet's domain-language column names to
// canonical field keys. Headers not present here pass through unchanged
// under their own text and are ignored downstream.
var headerTable = map[string]string{
	"날짜":     fieldDate,
	"시간":     fieldTime,
	"센터명":    fieldCenterName,
	"전체":     fieldTotal,
	"마감률(%)": fieldCompletion,
	"마감":     fieldClosed,
	"잔여":     fieldRemaining,
	"접수":     fieldReceipt,
	"할당":     fieldAssigned,
	"출력":     fieldOutput,
}

// canonicalKey translates a cleaned header cell to its canonical field
// key, or returns the header itself when unrecognized.
func canonicalKey(header string) string {
	if key, ok := headerTable[header]; ok {
		return key
	}
	return header
}
