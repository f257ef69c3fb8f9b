// Package policy decides which caller may invoke which operation.
//
// Authorize is a pure function of the caller's role and the operation; it never
// touches storage. Visibility rules (which events a caller sees) live with the
// event registry, not here.
package policy

import (
	"fmt"

	"github.com/Anirudha-Sai/Event-Attendance/internal/model"
	pkgerrors "github.com/Anirudha-Sai/Event-Attendance/pkg/errors"
)

// Caller resolved identity of the current request. A nil *Caller is an
// unauthenticated request.
type Caller struct {
	ID    uint64
	Name  string
	Email string
	Role  model.Role
}

// Operation a gated core operation
type Operation string

const (
	OpCreateEvent    Operation = "createEvent"
	OpRecordScan     Operation = "recordScan"
	OpLookupRoster   Operation = "lookupRoster"
	OpApplyHodAction Operation = "applyHodAction"
	OpListEvents     Operation = "listEvents"
	OpViewEvent      Operation = "viewEvent"
	OpListAttendance Operation = "listAttendance"
	OpExportEvent    Operation = "exportEvent"
	OpStudentBadge   Operation = "studentBadge"
)

// anyRole marks operations open to every authenticated caller
var anyRole = []model.Role{model.RoleConductor, model.RoleHOD}

var rules = map[Operation][]model.Role{
	OpCreateEvent:    {model.RoleConductor},
	OpRecordScan:     {model.RoleConductor},
	OpLookupRoster:   {model.RoleConductor},
	OpApplyHodAction: {model.RoleHOD},
	OpListEvents:     anyRole,
	OpViewEvent:      anyRole,
	OpListAttendance: anyRole,
	OpExportEvent:    anyRole,
	OpStudentBadge:   anyRole,
}

// Authorize returns nil when caller may perform op.
// Unknown operations are denied.
func Authorize(caller *Caller, op Operation) error {
	if caller == nil {
		return pkgerrors.ErrUnauthenticated
	}
	for _, r := range rules[op] {
		if caller.Role == r {
			return nil
		}
	}
	return fmt.Errorf("%w: role %q may not %s", pkgerrors.ErrUnauthorized, caller.Role, op)
}
