package calculator

// BucketLabels lists the age-bucket labels in display order.
var BucketLabels = []string{"18-24", "25-30", "31-36", "37-47", ">47"}

// AgeBucket returns the statistics bucket for an age. Ages outside the named
// ranges (including under 18) fall into ">47", mirroring the catch-all branch
// of the reporting query this system replaced.
func AgeBucket(age int) string {
	switch {
	case age >= 18 && age <= 24:
		return "18-24"
	case age >= 25 && age <= 30:
		return "25-30"
	case age >= 31 && age <= 36:
		return "31-36"
	case age >= 37 && age <= 47:
		return "37-47"
	default:
		return ">47"
	}
}
