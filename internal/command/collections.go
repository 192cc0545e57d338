package command

// collections are the files the API keeps, with the array keys each one holds.
var collections = []struct {
	File string
	Keys []string
}{
	{"customers", []string{"customers", "loyaltyPointsHistory"}},
	{"suppliers", []string{"suppliers"}},
	{"forwarders", []string{"forwarders"}},
	{"inventory", []string{"inventory"}},
	{"orders", []string{"orders"}},
	{"sales", []string{"sales"}},
	{"costings", []string{"costings"}},
	{"reports", []string{"reports"}},
	{"notifications", []string{"notifications"}},
}
