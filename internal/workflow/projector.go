package workflow

import "docflow/internal/model"

type projectionKey struct {
	status      model.RequestStatus
	levelStatus string
}

// libraryStatuses holds every (Status, LevelStatus) pair the engine can produce.
var libraryStatuses = map[projectionKey]string{
	{model.RequestInProgress, "L1 Pending"}:     "L1 Approval Pending",
	{model.RequestInProgress, "L2 Pending"}:     "L2 Approval Pending",
	{model.RequestInProgress, "L3 Pending"}:     "L3 Approval Pending",
	{model.RequestRejected, "L1 Rejected"}:      "L1 Approval Rejected",
	{model.RequestRejected, "L2 Rejected"}:      "L2 Approval Rejected",
	{model.RequestRejected, "L3 Rejected"}:      "L3 Approval Rejected",
	{model.RequestCompleted, model.AllApproved}: "Completed",
}

// Project maps internal request state to the label mirrored onto the library item.
// Unknown pairs yield the LevelStatus unchanged so newer labels pass through; the
// result is never empty.
func Project(status model.RequestStatus, levelStatus string) string {
	if label, ok := libraryStatuses[projectionKey{status, levelStatus}]; ok {
		return label
	}
	if levelStatus != "" {
		return levelStatus
	}
	if status != "" {
		return string(status)
	}
	return "Unknown"
}

// ProjectRequest is Project applied to a request.
func ProjectRequest(r model.Request) string {
	return Project(r.Status, r.LevelStatus)
}
