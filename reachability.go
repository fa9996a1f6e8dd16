package main

// TransitiveExports returns every module reachable from module by following
// re-export edges one or more times. If B exports C and C exports D then
// TransitiveExports("B") is {C, D}. Each module is queued only the first time
// it is seen, so cycles terminate; module itself is included only when a
// cycle leads back to it.
func TransitiveExports(module string, graph map[string]stringSet) stringSet {
	visited := newStringSet()

	var queue []string
	for exported := range graph[module] {
		queue = append(queue, exported)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited.has(current) {
			continue
		}
		visited.add(current)

		for next := range graph[current] {
			if !visited.has(next) {
				queue = append(queue, next)
			}
		}
	}

	return visited
}
