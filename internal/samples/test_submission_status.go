package samples

import (
	"context"
	"fmt"

	tagskema "github.com/reoring/tagskema"
	"github.com/reoring/tagskema/codec"
	"github.com/reoring/tagskema/dsl"
	"github.com/reoring/tagskema/union"
)

type RunningSubmissionState string

const (
	QueueingSubmission           RunningSubmissionState = "QUEUEING_SUBMISSION"
	KillingHistoricalSubmissions RunningSubmissionState = "KILLING_HISTORICAL_SUBMISSIONS"
	WritingSubmissionToFile      RunningSubmissionState = "WRITING_SUBMISSION_TO_FILE"
	CompilingSubmission          RunningSubmissionState = "COMPILING_SUBMISSION"
	RunningSubmission            RunningSubmissionState = "RUNNING_SUBMISSION"
)

// TestSubmissionStatus reports the lifecycle of a test submission. Stopped
// carries no payload; Errored keeps the error object as raw JSON since its
// shape is owned by another union.
type TestSubmissionStatus interface {
	union.Variant
	isTestSubmissionStatus()
}

type StatusStopped struct{}

type StatusErrored struct{ Error any }

type StatusRunning struct{ State RunningSubmissionState }

type StatusTestCaseIDToState struct{ States map[string]any }

type UnknownTestSubmissionStatus struct {
	Discriminant string
	Raw          map[string]any
}

func (StatusStopped) Tag() string               { return "stopped" }
func (StatusErrored) Tag() string               { return "errored" }
func (StatusRunning) Tag() string               { return "running" }
func (StatusTestCaseIDToState) Tag() string     { return "testCaseIdToState" }
func (UnknownTestSubmissionStatus) Tag() string { return union.UnknownTag }

func (StatusStopped) isTestSubmissionStatus()               {}
func (StatusErrored) isTestSubmissionStatus()               {}
func (StatusRunning) isTestSubmissionStatus()               {}
func (StatusTestCaseIDToState) isTestSubmissionStatus()     {}
func (UnknownTestSubmissionStatus) isTestSubmissionStatus() {}

var testSubmissionStatusUnion = dsl.Union("type").
	NoPayload("stopped").
	Wrapped("errored", dsl.SchemaOf(dsl.Any())).
	Wrapped("running", dsl.SchemaOf(dsl.Enum(QueueingSubmission, KillingHistoricalSubmissions, WritingSubmissionToFile, CompilingSubmission, RunningSubmission))).
	Wrapped("testCaseIdToState", dsl.MapOf(dsl.Any())).
	MustBuild()

// TestSubmissionStatusSchema maps {"type":...} status objects.
var TestSubmissionStatusSchema = dsl.Transform(
	tagskema.Schema[union.Value](testSubmissionStatusUnion),
	codec.FuncE(decodeTestSubmissionStatus, encodeTestSubmissionStatus),
)

func decodeTestSubmissionStatus(_ context.Context, v union.Value) (TestSubmissionStatus, error) {
	switch v.Tag() {
	case "stopped":
		return StatusStopped{}, nil
	case "errored":
		return StatusErrored{Error: v.Payload()}, nil
	case "running":
		st, err := union.PayloadAs[RunningSubmissionState](v, "running")
		if err != nil {
			return nil, err
		}
		return StatusRunning{State: st}, nil
	case "testCaseIdToState":
		m, err := union.PayloadAs[map[string]any](v, "testCaseIdToState")
		if err != nil {
			return nil, err
		}
		return StatusTestCaseIDToState{States: m}, nil
	case union.UnknownTag:
		raw, _ := v.Raw()
		return UnknownTestSubmissionStatus{Discriminant: v.WireTag(), Raw: raw}, nil
	}
	return nil, fmt.Errorf("%w: %q", union.ErrNoCase, v.Tag())
}

func encodeTestSubmissionStatus(_ context.Context, s TestSubmissionStatus) (union.Value, error) {
	switch x := s.(type) {
	case StatusStopped:
		return union.New(x.Tag(), nil), nil
	case StatusErrored:
		return union.New(x.Tag(), x.Error), nil
	case StatusRunning:
		return union.New(x.Tag(), x.State), nil
	case StatusTestCaseIDToState:
		return union.New(x.Tag(), x.States), nil
	case UnknownTestSubmissionStatus:
		return union.Unknown(x.Discriminant, x.Raw), nil
	}
	return union.Value{}, fmt.Errorf("unsupported TestSubmissionStatus %T", s)
}
