package award

// DefaultRosters returns the tournament's published candidate lists.
func DefaultRosters() map[Type][]Candidate {
	return map[Type][]Candidate{
		TypeBestPlayer: {
			{Name: "Zubidullah", Team: TeamFalcon},
			{Name: "Moh'd Alfaqih", Team: TeamWolves},
			{Name: "Hadi", Team: TeamWolves},
			{Name: "Hackeem", Team: TeamOryx},
			{Name: "Haitham", Team: TeamOryx},
			{Name: "Zoir", Team: TeamOryx},
			{Name: "Moh'd Shahan", Team: TeamWolves},
			{Name: "Omar", Team: TeamLeopard},
			{Name: "Moh'd Eid", Team: TeamFalcon},
			{Name: "Fahim", Team: TeamFalcon},
			{Name: "Ahmed Kanbari", Team: TeamFalcon},
			{Name: "Akram", Team: TeamLeopard},
			{Name: "Anas", Team: TeamLeopard},
			{Name: "Abdulla Rashidov", Team: TeamLeopard},
			{Name: "Khalil", Team: TeamOryx},
			{Name: "Zeniman", Team: TeamWolves},
		},
		TypeBestGoalkeeper: {
			{Name: "Hadi", Team: TeamWolves},
			{Name: "Ulugbek", Team: TeamOryx},
			{Name: "Tammem", Team: TeamFalcon},
			{Name: "Ahmad", Team: TeamLeopard},
		},
	}
}

func DefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultRosters())
	if err != nil {
		panic(err)
	}
	return r
}
