package record

// Placeholder is the value used for every field of the fallback record.
const Placeholder = "-"

// Fallback returns the single-record dataset shown when loading fails.
func Fallback() Dataset {
	var r Record
	r.Map(func(string) string { return Placeholder })
	return Dataset{r}
}

// IsFallback reports whether ds is exactly the fallback dataset.
func IsFallback(ds Dataset) bool {
	if len(ds) != 1 {
		return false
	}
	for _, v := range ds[0].Values() {
		if v != Placeholder {
			return false
		}
	}
	return true
}
