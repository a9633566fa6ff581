package flow

import "fmt"

// Kind classifies a failure by where it came from.
type Kind int

const (
	// KindPermission is a camera that could not be opened or read.
	KindPermission Kind = iota
	// KindValidation is a rejected upload or missing input.
	KindValidation
	// KindRemote is a request the backend answered with success=false.
	KindRemote
	// KindTransport is a backend that could not be reached.
	KindTransport
	// KindHistory is a failed history operation.
	KindHistory
)

func (k Kind) String() string {
	switch k {
	case KindPermission:
		return "permission"
	case KindValidation:
		return "validation"
	case KindRemote:
		return "remote"
	case KindTransport:
		return "transport"
	case KindHistory:
		return "history"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// User-facing alert texts.
const (
	MsgCamera         = "Error accessing webcam. Please ensure camera permissions are granted and try again."
	MsgConnectBackend = "Failed to connect to backend. Please ensure the server is running."
	MsgConnectServer  = "Failed to connect to server"
	MsgClearHistory   = "Failed to clear history"
	MsgDeleteEntry    = "Failed to delete history entry"
	MsgDemoImage      = "Failed to load demo image."
	MsgReadFile       = "Failed to read the selected file."
	MsgNoResult       = "No result to download."
	msgPredictPrefix  = "Prediction failed: "
)

// Failure is an error that has been shown to the user as an alert.
type Failure struct {
	Kind    Kind
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return f.Message
	}
	return fmt.Sprintf("%s: %v", f.Message, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// returnsToInput reports whether a submission failure of this kind leaves
// the loading view.
func (k Kind) returnsToInput() bool {
	return k == KindRemote || k == KindTransport
}

// fail is the failure path for submissions: report, then return to input
// where the kind says so.
func (f *Flow) fail(kind Kind, message string, err error) *Failure {
	failure := f.report(kind, message, err)
	if kind.returnsToInput() {
		f.store.ReturnToInput()
	}
	return failure
}

// report alerts and logs a failure without touching the view.
func (f *Flow) report(kind Kind, message string, err error) *Failure {
	failure := &Failure{Kind: kind, Message: message, Err: err}

	switch kind {
	case KindTransport, KindHistory:
		f.logger.Error("❌ %s failure: %v", kind, failure)
	default:
		f.logger.Warning("⚠️  %s failure: %v", kind, failure)
	}

	f.store.Alert(message)
	return failure
}
