package devenv

// SynergyTestConfig is read from dev/.state/synergy_test.json5 by the live
// portal tests, they are skipped when it is absent.
type SynergyTestConfig struct {
	BaseUrl  string `json:"base_url"`
	Username string `json:"username"`
	Password string `json:"password"`
	Locale   string `json:"locale"`
	// title of a discipline with at least one graded event, optional
	Discipline string `json:"discipline"`
}
