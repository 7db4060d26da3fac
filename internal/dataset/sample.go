package dataset

// Sample returns a small built-in dataset for demos and tests: the 2023
// figures for the three default states, split by teaching stage. It is
// never merged with loaded data.
func Sample() []Record {
	type row struct {
		state, location, dependency, stage string
		approval, failure, dropout         float64
		nApproval, nFailure, nDropout      int64
	}
	rows := []row{
		{"Minas Gerais", "Urbana", "Estadual", "Fundamental", 85.2, 8.1, 6.7, 1200000, 114000, 94500},
		{"São Paulo", "Urbana", "Estadual", "Fundamental", 88.1, 6.3, 5.6, 2200000, 157000, 140000},
		{"Rio de Janeiro", "Urbana", "Municipal", "Fundamental", 83.5, 9.5, 7.0, 1500000, 171000, 126000},
		{"Minas Gerais", "Rural", "Municipal", "Médio", 82.3, 10.2, 7.5, 1100000, 140000, 121000},
		{"São Paulo", "Urbana", "Privada", "Médio", 86.4, 8.0, 5.6, 2100000, 175000, 138000},
		{"Rio de Janeiro", "Rural", "Estadual", "Médio", 81.0, 11.1, 7.9, 1400000, 192000, 136000},
	}

	out := make([]Record, len(rows))
	for i, r := range rows {
		out[i] = Record{
			Year:          DefaultYear,
			State:         r.state,
			Location:      r.location,
			Dependency:    r.dependency,
			Stage:         r.stage,
			ApprovalRate:  r.approval,
			FailureRate:   r.failure,
			DropoutRate:   r.dropout,
			ApprovalCount: r.nApproval,
			FailureCount:  r.nFailure,
			DropoutCount:  r.nDropout,
		}
	}
	return out
}
