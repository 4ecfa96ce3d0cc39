package redis

const (
	// KeyPrefixCafe is the prefix for cafe keys
	KeyPrefixCafe = "ruangkopi:cafe:"
	// KeyAllCafes is the key for the set of all cafe IDs
	KeyAllCafes = "ruangkopi:cafes:all"
	// KeyPrefixSubmission is the prefix for submission keys
	KeyPrefixSubmission = "ruangkopi:submission:"
	// KeyPendingSubmissions is the key for the set of pending submission IDs
	KeyPendingSubmissions = "ruangkopi:submissions:pending"
)

// CafeKey returns the Redis key for a cafe by ID
func CafeKey(id string) string {
	return KeyPrefixCafe + id
}

// AllCafesKey returns the key for the set of all cafe IDs
func AllCafesKey() string {
	return KeyAllCafes
}

// SubmissionKey returns the Redis key for a submission by ID
func SubmissionKey(id string) string {
	return KeyPrefixSubmission + id
}

// PendingSubmissionsKey returns the key for the set of pending submission IDs
func PendingSubmissionsKey() string {
	return KeyPendingSubmissions
}
