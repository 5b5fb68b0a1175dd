package recommender

// Profile is a disease with its associated symptom list, as supplied by the
// catalog. Read-only reference data; the disease name is the unique
// identifier.
type Profile struct {
	Disease  string
	Symptoms []string
}
