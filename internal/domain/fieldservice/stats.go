package fieldservice

type Stats struct {
	Total   int `json:"total"`
	Open    int `json:"abertas"`
	Pending int `json:"pendentes"`
	Closed  int `json:"fechadas"`
}

func ComputeStats(interventions []Intervention) Stats {
	s := Stats{Total: len(interventions)}
	for _, i := range interventions {
		switch i.Status {
		case StatusOpen:
			s.Open++
		case StatusPending:
			s.Pending++
		case StatusClosed:
			s.Closed++
		}
	}
	return s
}
