package inventory

// OutcomeKind classifies the result of exporting one application's package.
type OutcomeKind int

const (
	// OutcomeExtracted means the package was written to the destination.
	OutcomeExtracted OutcomeKind = iota

	// OutcomePermissionDenied means no destination could be resolved or the
	// file could not be created. Both collapse into this kind; no finer
	// distinction is surfaced at this layer.
	OutcomePermissionDenied

	// OutcomePermissionRestricted is a reserved classification slot for a
	// finer-grained permission model. Nothing produces it yet.
	OutcomePermissionRestricted

	// OutcomeNotAllowed is a reserved classification slot. Nothing produces
	// it yet.
	OutcomeNotAllowed
)

// String returns a human-readable name for the kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeExtracted:
		return "extracted"
	case OutcomePermissionDenied:
		return "permission denied"
	case OutcomePermissionRestricted:
		return "permission restricted"
	case OutcomeNotAllowed:
		return "not allowed"
	}

	return "unknown"
}

// Outcome is the immutable result of one export attempt. File points at the
// created file on success, and at the on-device source package otherwise.
type Outcome struct {
	Kind OutcomeKind
	App  *Application
	File string
}

// Extracted reports whether the export succeeded.
func (o Outcome) Extracted() bool {
	return o.Kind == OutcomeExtracted
}

// PermissionDenied reports whether the export was denied or failed.
func (o Outcome) PermissionDenied() bool {
	return o.Kind == OutcomePermissionDenied
}

// PermissionRestricted reports whether the export hit the reserved
// restricted classification.
func (o Outcome) PermissionRestricted() bool {
	return o.Kind == OutcomePermissionRestricted
}

// NotAllowed reports whether the export hit the reserved not-allowed
// classification.
func (o Outcome) NotAllowed() bool {
	return o.Kind == OutcomeNotAllowed
}

// BatchKind classifies a whole batch export.
type BatchKind int

const (
	// BatchAllExtracted means every outcome in the batch succeeded.
	BatchAllExtracted BatchKind = iota

	// BatchSomeFailed means the batch mixed successes and failures.
	BatchSomeFailed

	// BatchAllFailed means no outcome in the batch succeeded.
	BatchAllFailed

	// BatchPermissionDenied means at least one outcome was denied, or no
	// destination could be resolved for the batch at all.
	BatchPermissionDenied
)

// String returns a human-readable name for the kind.
func (k BatchKind) String() string {
	switch k {
	case BatchAllExtracted:
		return "all extracted"
	case BatchSomeFailed:
		return "some failed"
	case BatchAllFailed:
		return "all failed"
	case BatchPermissionDenied:
		return "permission denied"
	}

	return "unknown"
}

// BatchOutcome aggregates the outcomes of one batch export. Outcomes are in
// the order the selection was iterated.
type BatchOutcome struct {
	Kind     BatchKind
	Outcomes []Outcome
}

// Extracted returns the number of successful outcomes in the batch.
func (b BatchOutcome) Extracted() int {
	extracted := 0
	for _, o := range b.Outcomes {
		if o.Extracted() {
			extracted++
		}
	}

	return extracted
}

// classifyBatch applies the aggregation priority rule: any denied outcome
// marks the whole batch denied; otherwise zero successes is all-failed, full
// success is all-extracted, and anything in between is some-failed. The
// zero-outcome case deliberately lands on all-failed; callers that resolved
// no destination must short-circuit to BatchPermissionDenied themselves.
func classifyBatch(outcomes []Outcome) BatchKind {
	extracted := 0
	for _, o := range outcomes {
		if o.PermissionDenied() {
			return BatchPermissionDenied
		}

		if o.Extracted() {
			extracted++
		}
	}

	switch {
	case extracted == 0:
		return BatchAllFailed
	case extracted == len(outcomes):
		return BatchAllExtracted
	default:
		return BatchSomeFailed
	}
}
