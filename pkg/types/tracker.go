package types

// TrackerKind identifies one life-logging category. Every kind shares the
// same entry shape (schemaless payload + occurred_at), so new kinds only
// need a constant here.
type TrackerKind string

const (
	TrackerKindPrayer      TrackerKind = "prayer"
	TrackerKindCoding      TrackerKind = "coding"
	TrackerKindWorkout     TrackerKind = "workout"
	TrackerKindReading     TrackerKind = "reading"
	TrackerKindHealth      TrackerKind = "health"
	TrackerKindMobileUsage TrackerKind = "mobile_usage"
	TrackerKindExpense     TrackerKind = "expense"
	TrackerKindNote        TrackerKind = "note"
	TrackerKindTask        TrackerKind = "task"
)

var trackerKinds = map[TrackerKind]struct{}{
	TrackerKindPrayer:      {},
	TrackerKindCoding:      {},
	TrackerKindWorkout:     {},
	TrackerKindReading:     {},
	TrackerKindHealth:      {},
	TrackerKindMobileUsage: {},
	TrackerKindExpense:     {},
	TrackerKindNote:        {},
	TrackerKindTask:        {},
}

func (k TrackerKind) Valid() bool {
	_, ok := trackerKinds[k]
	return ok
}
