package align

// Link aligns source position Source with target position Target (0-based).
type Link struct {
	Source int `json:"source"`
	Target int `json:"target"`
}

// Align returns the most probable IBM Model 1 alignment of a sentence pair:
// each source word is linked to the target word c maximizing t(e|c). Ties go
// to the earliest target position. Words unknown to the model stay unaligned.
func (m *Model) Align(source, target []string) []Link {
	tids := make([]int, len(target))
	for j, w := range target {
		tids[j] = m.Target.Get(w)
	}
	E := m.Source.Size()

	var links []Link
	for i, w := range source {
		e := m.Source.Get(w)
		if e < 0 {
			continue
		}
		best, bestP := -1, 0.0
		for j, c := range tids {
			if c < 0 {
				continue
			}
			if p := m.Table[c*E+e]; p > bestP {
				best, bestP = j, p
			}
		}
		if best >= 0 {
			links = append(links, Link{Source: i, Target: best})
		}
	}
	return links
}

// AlignmentScore accumulates alignment quality against gold sure (S) and
// possible (P) links, where S is a subset of P.
type AlignmentScore struct {
	Predicted    int // |A|
	Sure         int // |S|
	PredSure     int // |A ∩ S|
	PredPossible int // |A ∩ P|
}

// Add scores predicted links against gold links of one sentence pair.
// Possible links are merged with sure links.
func (s *AlignmentScore) Add(predicted, sure, possible []Link) {
	sureSet := make(map[Link]bool, len(sure))
	possibleSet := make(map[Link]bool, len(sure)+len(possible))
	for _, l := range sure {
		sureSet[l] = true
		possibleSet[l] = true
	}
	for _, l := range possible {
		possibleSet[l] = true
	}
	seen := make(map[Link]bool, len(predicted))
	for _, l := range predicted {
		if seen[l] {
			continue
		}
		seen[l] = true
		s.Predicted++
		if sureSet[l] {
			s.PredSure++
		}
		if possibleSet[l] {
			s.PredPossible++
		}
	}
	s.Sure += len(sureSet)
}

// Precision is |A ∩ P| / |A|.
func (s AlignmentScore) Precision() float64 {
	if s.Predicted == 0 {
		return 0
	}
	return float64(s.PredPossible) / float64(s.Predicted)
}

// Recall is |A ∩ S| / |S|.
func (s AlignmentScore) Recall() float64 {
	if s.Sure == 0 {
		return 0
	}
	return float64(s.PredSure) / float64(s.Sure)
}

// AER is the alignment error rate 1 - (|A∩S| + |A∩P|) / (|A| + |S|).
func (s AlignmentScore) AER() float64 {
	if s.Predicted+s.Sure == 0 {
		return 0
	}
	return 1 - float64(s.PredSure+s.PredPossible)/float64(s.Predicted+s.Sure)
}
