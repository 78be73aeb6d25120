// Package aggregate is the Aggregate/Detail Field Engine (§4.8): Basic mode
// edits one category-level number; Advanced mode edits the detail fields
// underneath it. Downstream calculations consume only Allocated(): the
// entered total while a field is still in Basic mode, the detail-field sum
// once it is in Advanced mode, and never the Unallocated residual.
package aggregate

// Mode is which half of a money section is currently editable.
type Mode string

const (
	ModeBasic    Mode = "basic"
	ModeAdvanced Mode = "advanced"
)

// DistributionStrategy is how a Basic-mode total is split across detail
// fields on switching to Advanced (§4.8).
type DistributionStrategy string

const (
	StrategyEven         DistributionStrategy = "even"
	StrategyProportional DistributionStrategy = "proportional"
)

// UnallocatedAction is one of the three actions offered when a Basic
// `entered` value and the Advanced detail sum diverge.
type UnallocatedAction string

const (
	ActionClearOriginal UnallocatedAction = "clear_original"
	ActionMoveToOther   UnallocatedAction = "move_to_other"
	ActionIgnore        UnallocatedAction = "ignore"
)

// OtherFieldID is the detail field conventionally used as a catch-all by
// ActionMoveToOther, when a category declares one.
const OtherFieldID = "other"

// Field is one money category with N detail fields (§3 Aggregate field).
type Field struct {
	Mode         Mode
	Entered      float64
	DetailOrder  []string
	DetailValues map[string]float64
}

// NewBasicField starts a category in Basic mode with a single entered total
// and no detail breakdown yet.
func NewBasicField(entered float64, detailOrder []string) *Field {
	return &Field{Mode: ModeBasic, Entered: entered, DetailOrder: detailOrder, DetailValues: map[string]float64{}}
}

// Allocated is the only value calculations may consume (§3 invariant). In
// Advanced mode it is Σ detail_values. In Basic mode no detail split has
// ever been shown to the user, so Entered is itself the allocated amount —
// Basic-mode money still counts even though the category was never
// distributed across DetailValues.
func (f *Field) Allocated() float64 {
	if f.Mode == ModeBasic {
		return f.Entered
	}
	var total float64
	for _, v := range f.DetailValues {
		total += v
	}
	return total
}

// Unallocated is entered − allocated, informational only (§3, §4.8).
func (f *Field) Unallocated() float64 {
	return f.Entered - f.Allocated()
}

// SwitchToAdvanced distributes Entered across DetailOrder by strategy and
// enters Advanced mode. Distribution is preview-then-commit at the caller's
// discretion: this method performs the commit step; callers that want a
// preview should call Distribute directly without assigning it.
func (f *Field) SwitchToAdvanced(strategy DistributionStrategy) {
	if f.Mode == ModeAdvanced {
		return
	}
	f.DetailValues = f.Distribute(strategy)
	f.Mode = ModeAdvanced
}

// Distribute previews how Entered would split across DetailOrder without
// mutating the field (§4.8 "preview-then-commit").
func (f *Field) Distribute(strategy DistributionStrategy) map[string]float64 {
	out := make(map[string]float64, len(f.DetailOrder))
	if len(f.DetailOrder) == 0 {
		return out
	}

	switch strategy {
	case StrategyProportional:
		// Sum DetailValues directly rather than via Allocated(): this is
		// called from SwitchToAdvanced while Mode is still ModeBasic, where
		// Allocated() reports Entered, not the (possibly empty) existing
		// detail split this branch needs to detect.
		var existingTotal float64
		for _, v := range f.DetailValues {
			existingTotal += v
		}
		if existingTotal <= 0 {
			return f.Distribute(StrategyEven)
		}
		for _, id := range f.DetailOrder {
			share := f.DetailValues[id] / existingTotal
			out[id] = round2(f.Entered * share)
		}
	default: // StrategyEven
		share := f.Entered / float64(len(f.DetailOrder))
		for _, id := range f.DetailOrder {
			out[id] = round2(share)
		}
	}
	return out
}

// SetDetail edits one detail field while in Advanced mode.
func (f *Field) SetDetail(id string, value float64) {
	if f.DetailValues == nil {
		f.DetailValues = map[string]float64{}
	}
	f.DetailValues[id] = value
}

// SwitchToBasic moves Advanced → Basic, setting Entered = Allocated so no
// data is silently lost (§3 invariant "Moving advanced → basic yields
// entered = allocated").
func (f *Field) SwitchToBasic() {
	if f.Mode == ModeBasic {
		return
	}
	f.Entered = f.Allocated()
	f.Mode = ModeBasic
}

// ResolveUnallocated applies one of the three user actions to a nonzero
// Unallocated residual (§4.8).
func (f *Field) ResolveUnallocated(action UnallocatedAction) {
	residual := f.Unallocated()
	if residual == 0 {
		return
	}
	switch action {
	case ActionClearOriginal:
		f.Entered = f.Allocated()
	case ActionMoveToOther:
		f.SetDetail(OtherFieldID, f.DetailValues[OtherFieldID]+residual)
	case ActionIgnore:
		// Entered and DetailValues are left as-is; Unallocated stays
		// visible for transparency but is never read by calculations.
	}
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
