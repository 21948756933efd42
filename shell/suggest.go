package shell

import (
	"hash/fnv"
	"math"
	"strings"
	"sync"

	"github.com/coder/hnsw"
)

const (
	suggestDims = 128
	// suggestMaxDistance is the cosine distance above which a neighbour is
	// not close enough to offer.
	suggestMaxDistance = 0.5
	suggestNeighbours  = 3
)

// Suggester finds the known command name closest to a mistyped one. Names
// are embedded as hashed character n-gram vectors in an HNSW graph.
type Suggester struct {
	mu    sync.RWMutex
	graph *hnsw.Graph[string]
}

// NewSuggester indexes names.
func NewSuggester(names []string) *Suggester {
	s := &Suggester{graph: hnsw.NewGraph[string]()}
	seen := make(map[string]bool, len(names))
	nodes := make([]hnsw.Node[string], 0, len(names))
	for _, name := range names {
		name = strings.ToLower(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		nodes = append(nodes, hnsw.MakeNode(name, ngramVector(name)))
	}
	if len(nodes) > 0 {
		s.graph.Add(nodes...)
	}
	return s
}

// Suggest returns the closest indexed name to word, if any is close enough.
// An exact match is never suggested.
func (s *Suggester) Suggest(word string) (string, bool) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return "", false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.graph.Len() == 0 {
		return "", false
	}

	query := ngramVector(word)
	best, bestDist := "", float32(math.MaxFloat32)
	for _, n := range s.graph.Search(query, suggestNeighbours) {
		d := hnsw.CosineDistance(query, n.Value)
		if d < bestDist {
			best, bestDist = n.Key, d
		}
	}
	if best == "" || best == word || bestDist > suggestMaxDistance {
		return "", false
	}
	return best, true
}

// ngramVector hashes the unigrams and boundary-marked bigrams of word into
// a unit vector.
func ngramVector(word string) []float32 {
	vec := make([]float32, suggestDims)
	add := func(gram string) {
		h := fnv.New32a()
		h.Write([]byte(gram))
		vec[h.Sum32()%suggestDims]++
	}

	runes := []rune(word)
	for _, r := range runes {
		add(string(r))
	}
	marked := append(append([]rune{'^'}, runes...), '$')
	for i := 0; i+1 < len(marked); i++ {
		add(string(marked[i : i+2]))
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec
}
