package topic

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Point is a topic's position on the intertopic distance map.
type Point struct {
	X, Y float64
	// Size is the topic's share of the corpus.
	Size float64
}

// JensenShannon returns the Jensen-Shannon divergence (base 2) of two
// distributions over the same support.
func JensenShannon(p, q []float64) float64 {
	kl := func(a, m []float64) float64 {
		sum := 0.0
		for i := range a {
			if a[i] > 0 && m[i] > 0 {
				sum += a[i] * math.Log2(a[i]/m[i])
			}
		}
		return sum
	}
	m := make([]float64, len(p))
	for i := range p {
		m[i] = (p[i] + q[i]) / 2
	}
	return (kl(p, m) + kl(q, m)) / 2
}

// IntertopicMap projects the topics onto two dimensions with classical
// multidimensional scaling over Jensen-Shannon distances.
func (r *Result) IntertopicMap() []Point {
	k := len(r.TopicTerms)
	points := make([]Point, k)
	sizes := r.topicSizes()
	for i := range points {
		points[i].Size = sizes[i]
	}
	if k < 2 {
		return points
	}

	// Squared distances, double centered: B = -1/2 J D² J.
	d2 := make([][]float64, k)
	for i := range d2 {
		d2[i] = make([]float64, k)
		for j := range d2[i] {
			if i != j {
				d2[i][j] = JensenShannon(r.TopicTerms[i], r.TopicTerms[j])
			}
		}
	}
	rowMean := make([]float64, k)
	total := 0.0
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			rowMean[i] += d2[i][j]
		}
		total += rowMean[i]
		rowMean[i] /= float64(k)
	}
	total /= float64(k * k)

	b := mat.NewSymDense(k, nil)
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			b.SetSym(i, j, -0.5*(d2[i][j]-rowMean[i]-rowMean[j]+total))
		}
	}

	var eig mat.EigenSym
	if !eig.Factorize(b, true) {
		return points
	}
	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	order := make([]int, k)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return values[order[a]] > values[order[b]] })

	for dim := 0; dim < 2 && dim < k; dim++ {
		col := order[dim]
		scale := math.Sqrt(math.Max(values[col], 0))
		for i := 0; i < k; i++ {
			v := vectors.At(i, col) * scale
			if dim == 0 {
				points[i].X = v
			} else {
				points[i].Y = v
			}
		}
	}
	return points
}

// topicSizes is each topic's share of the summed document-topic
// distributions.
func (r *Result) topicSizes() []float64 {
	k := len(r.TopicTerms)
	sizes := make([]float64, k)
	if len(r.DocTopics) == 0 {
		for i := range sizes {
			sizes[i] = 1 / float64(k)
		}
		return sizes
	}
	total := 0.0
	for _, dist := range r.DocTopics {
		for t := 0; t < k && t < len(dist); t++ {
			sizes[t] += dist[t]
			total += dist[t]
		}
	}
	if total > 0 {
		for i := range sizes {
			sizes[i] /= total
		}
	}
	return sizes
}
