package domain

// Closure returns start followed by every location reachable through next,
// breadth first, each visited once.
func Closure(start string, next func(string) ([]string, error)) ([]string, error) {
	visited := map[string]bool{start: true}
	order := []string{start}
	for i := 0; i < len(order); i++ {
		adj, err := next(order[i])
		if err != nil {
			return nil, err
		}
		for _, n := range adj {
			if visited[n] {
				continue
			}
			visited[n] = true
			order = append(order, n)
		}
	}
	return order, nil
}
