package domain

// DetailMessage is the Outcome.Detail key carrying the failure message of an
// unhealthy probe.
const DetailMessage = "message"

// Outcome is the result of evaluating a single probe. Outcomes are produced
// fresh for every evaluation and are never cached.
type Outcome struct {
	Name    string
	Healthy bool
	Detail  map[string]string
}

// Healthy returns a passing Outcome for the named probe.
func Healthy(name string) Outcome {
	return Outcome{Name: name, Healthy: true}
}

// Unhealthy returns a failing Outcome for the named probe with err's message
// captured under DetailMessage. A nil err yields an empty message.
func Unhealthy(name string, err error) Outcome {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return Outcome{
		Name:    name,
		Healthy: false,
		Detail:  map[string]string{DetailMessage: msg},
	}
}

// Message returns the failure message recorded in Detail, if any.
func (o Outcome) Message() string {
	return o.Detail[DetailMessage]
}

// AggregateResult combines the outcomes of one health request. Outcomes keep
// the registration order of their probes so output is reproducible.
type AggregateResult struct {
	Healthy  bool
	Outcomes []Outcome
}

// NewAggregateResult builds an AggregateResult whose Healthy flag is true iff
// every outcome is healthy. An empty set is healthy.
func NewAggregateResult(outcomes []Outcome) AggregateResult {
	healthy := true
	for _, o := range outcomes {
		if !o.Healthy {
			healthy = false
			break
		}
	}
	if outcomes == nil {
		outcomes = []Outcome{}
	}
	return AggregateResult{Healthy: healthy, Outcomes: outcomes}
}

// Lookup returns the outcome recorded for name.
func (r AggregateResult) Lookup(name string) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Name == name {
			return o, true
		}
	}
	return Outcome{}, false
}

// Failed returns the unhealthy outcomes in order.
func (r AggregateResult) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if !o.Healthy {
			failed = append(failed, o)
		}
	}
	return failed
}
