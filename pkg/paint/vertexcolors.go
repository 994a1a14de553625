package paint

// Policy selects how a vertex color is chosen when the triangles
// sharing the vertex were painted with different indices.
type Policy int

const (
	// PolicyMajority picks the most common incident index; ties go to
	// the smallest tied index.
	PolicyMajority Policy = iota
	// PolicyLowest picks the smallest incident index regardless of how
	// often it appears.
	PolicyLowest
)

// AggregateVertexColors collapses per-triangle paint indices to one
// color per vertex. Every triangle contributes its index to each of its
// three vertices, then the policy resolves the winner per vertex.
//
// Vertices with no incident triangles get palette[0], or opaque white
// when the palette is empty. Out-of-range indices wrap modulo the
// palette length; the function never fails.
func AggregateVertexColors(vertexCount int, triangles [][3]int, paintIndices []int, palette []Color, policy Policy) []Color {
	incident := make([][]int, vertexCount)

	for t, tri := range triangles {
		if t >= len(paintIndices) {
			break
		}
		idx := paintIndices[t]
		for _, v := range tri {
			if v >= 0 && v < vertexCount {
				incident[v] = append(incident[v], idx)
			}
		}
	}

	defaultColor := White
	if len(palette) > 0 {
		defaultColor = palette[0]
	}

	colors := make([]Color, vertexCount)
	for v, indices := range incident {
		if len(indices) == 0 {
			colors[v] = defaultColor
			continue
		}

		var chosen int
		switch policy {
		case PolicyLowest:
			chosen = indices[0]
			for _, idx := range indices[1:] {
				if idx < chosen {
					chosen = idx
				}
			}
		default:
			chosen = majority(indices)
		}

		if len(palette) == 0 {
			colors[v] = White
			continue
		}
		if chosen < 0 || chosen >= len(palette) {
			chosen = ((chosen % len(palette)) + len(palette)) % len(palette)
		}
		colors[v] = palette[chosen]
	}

	return colors
}

// majority returns the most frequent value, ties broken by the smallest
// tied value.
func majority(indices []int) int {
	counts := make(map[int]int)
	for _, idx := range indices {
		counts[idx]++
	}

	chosen, chosenCount := indices[0], 0
	for idx, count := range counts {
		if count > chosenCount || (count == chosenCount && idx < chosen) {
			chosen, chosenCount = idx, count
		}
	}
	return chosen
}
