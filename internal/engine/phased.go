package engine

// PhasedEval holds a middlegame and an endgame score. Arithmetic is
// componentwise.
type PhasedEval struct {
	Mg, Eg int16
}

// Phased builds a PhasedEval.
func Phased(mg, eg int16) PhasedEval {
	return PhasedEval{Mg: mg, Eg: eg}
}

func (p PhasedEval) Add(o PhasedEval) PhasedEval { return PhasedEval{p.Mg + o.Mg, p.Eg + o.Eg} }
func (p PhasedEval) Sub(o PhasedEval) PhasedEval { return PhasedEval{p.Mg - o.Mg, p.Eg - o.Eg} }
func (p PhasedEval) Mul(n int16) PhasedEval      { return PhasedEval{p.Mg * n, p.Eg * n} }
func (p PhasedEval) Div(n int16) PhasedEval      { return PhasedEval{p.Mg / n, p.Eg / n} }
func (p PhasedEval) Neg() PhasedEval             { return PhasedEval{-p.Mg, -p.Eg} }

// Blend interpolates between the two scores. phase runs from 0 (bare
// endgame) to maxPhase (all pieces on the board).
func (p PhasedEval) Blend(phase int) int16 {
	phase = min(max(phase, 0), maxPhase)
	return int16((int32(p.Mg)*int32(phase) + int32(p.Eg)*int32(maxPhase-phase)) / maxPhase)
}
