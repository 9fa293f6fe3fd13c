package voice

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/attendance"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/profile"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/reminder"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/report"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/user"
)

// Tool names form the fixed grammar declared at session open. The model
// may only call these.
const (
	ToolAddInteraction     = "add_interaction"
	ToolAddReminder        = "add_reminder"
	ToolCreateNewContact   = "create_new_contact"
	ToolFinalizeCheckout   = "finalize_checkout"
	ToolGetTodayContext    = "get_today_context"
	ToolSalesIntelligence  = "get_global_sales_intelligence"
	ToolSaveManagementRept = "save_management_report"
)

// ToolDeclarations is the grammar sent in the setup message.
func ToolDeclarations() []ToolDeclaration {
	return []ToolDeclaration{
		{
			Name:         ToolAddInteraction,
			Description:  "Record a customer conversation at a visited location in today's report.",
			RequiredArgs: []string{"locationName", "customerName", "summary"},
			OptionalArgs: []string{"department"},
		},
		{
			Name:         ToolAddReminder,
			Description:  "Create a follow-up reminder for the caller.",
			RequiredArgs: []string{"title", "dueTime"},
			OptionalArgs: []string{"description", "type"},
		},
		{
			Name:         ToolCreateNewContact,
			Description:  "Add a customer contact to the caller's roster.",
			RequiredArgs: []string{"name", "hospital", "department"},
			OptionalArgs: []string{"phone"},
		},
		{
			Name:        ToolFinalizeCheckout,
			Description: "Stamp today's checkout time, ending the workday.",
		},
		{
			Name:        ToolGetTodayContext,
			Description: "Summarize today's check-in state, visited locations and pending reminders.",
		},
		{
			Name:        ToolSalesIntelligence,
			Description: "Aggregate the whole team's pipeline by stage. Managers and admins only.",
		},
		{
			Name:         ToolSaveManagementRept,
			Description:  "Save a management log entry. Managers and admins only.",
			RequiredArgs: []string{"title", "reportContent"},
			OptionalArgs: []string{"category"},
		},
	}
}

// AttendanceTools is the slice of the attendance service the dispatcher
// needs.
type AttendanceTools interface {
	AddInteraction(ctx context.Context, userID string, location string, customerName string, summary string) error
	FinalizeCheckout(ctx context.Context, userID string) (attendance.AttendanceDay, error)
	TodayContext(ctx context.Context, userID string) (attendance.TodayContext, error)
}

// ReminderTools creates reminders on the caller's behalf.
type ReminderTools interface {
	Create(ctx context.Context, userID string, req reminder.CreateRequest) (reminder.Reminder, error)
}

// ContactTools mutates the caller's roster.
type ContactTools interface {
	AddCustomer(ctx context.Context, userID string, req profile.AddCustomerRequest) error
}

// ReportTools covers the two privileged tools.
type ReportTools interface {
	Create(ctx context.Context, actor user.Actor, req report.CreateRequest) (report.ManagementReport, error)
	SalesIntelligence(ctx context.Context, actor user.Actor) (report.SalesIntelligence, error)
}

// ToolDispatcher maps function calls onto the stores. Refusals and store
// errors are results, never session failures.
type ToolDispatcher struct {
	attendance AttendanceTools
	reminders  ReminderTools
	contacts   ContactTools
	reports    ReportTools
}

func NewToolDispatcher(attendanceSvc AttendanceTools, reminders ReminderTools, contacts ContactTools, reports ReportTools) *ToolDispatcher {
	return &ToolDispatcher{
		attendance: attendanceSvc,
		reminders:  reminders,
		contacts:   contacts,
		reports:    reports,
	}
}

// Dispatch runs the calls of one model turn sequentially, in arrival
// order, and returns results in the same order keyed by call id.
func (d *ToolDispatcher) Dispatch(ctx context.Context, actor user.Actor, calls []FunctionCall) []ToolResult {
	results := make([]ToolResult, 0, len(calls))
	for _, call := range calls {
		results = append(results, d.dispatchOne(ctx, actor, call))
	}
	return results
}

func (d *ToolDispatcher) dispatchOne(ctx context.Context, actor user.Actor, call FunctionCall) ToolResult {
	res := ToolResult{CallID: call.ID, Name: call.Name}

	if gated(call.Name) && !actor.IsPrivileged() {
		res.Refusal = &Refusal{Reason: "this action is only available to managers and admins"}
		return res
	}

	payload, err := d.run(ctx, actor, call)
	if err != nil {
		res.Error = &ToolError{Message: err.Error()}
		return res
	}
	res.Payload = payload
	return res
}

func gated(name string) bool {
	return name == ToolSalesIntelligence || name == ToolSaveManagementRept
}

func (d *ToolDispatcher) run(ctx context.Context, actor user.Actor, call FunctionCall) (json.RawMessage, error) {
	switch call.Name {
	case ToolAddInteraction:
		location := call.Args["locationName"]
		customer := call.Args["customerName"]
		summary := call.Args["summary"]
		if location == "" || customer == "" {
			return nil, fmt.Errorf("locationName and customerName are required")
		}
		if err := d.attendance.AddInteraction(ctx, actor.ID, location, customer, summary); err != nil {
			return nil, err
		}
		return ackPayload("interaction recorded")

	case ToolAddReminder:
		req := reminder.CreateRequest{
			Title:       call.Args["title"],
			Description: call.Args["description"],
			Type:        call.Args["type"],
			DueTime:     call.Args["dueTime"],
		}
		if err := req.Validate(); err != nil {
			return nil, err
		}
		created, err := d.reminders.Create(ctx, actor.ID, req)
		if err != nil {
			return nil, err
		}
		return json.Marshal(created)

	case ToolCreateNewContact:
		req := profile.AddCustomerRequest{
			Name:       call.Args["name"],
			Hospital:   call.Args["hospital"],
			Department: call.Args["department"],
			Phone:      call.Args["phone"],
		}
		if err := req.Validate(); err != nil {
			return nil, err
		}
		if err := d.contacts.AddCustomer(ctx, actor.ID, req); err != nil {
			return nil, err
		}
		return ackPayload("contact added")

	case ToolFinalizeCheckout:
		day, err := d.attendance.FinalizeCheckout(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		return json.Marshal(day)

	case ToolGetTodayContext:
		tc, err := d.attendance.TodayContext(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		return json.Marshal(tc)

	case ToolSalesIntelligence:
		intel, err := d.reports.SalesIntelligence(ctx, actor)
		if err != nil {
			return nil, err
		}
		return json.Marshal(intel)

	case ToolSaveManagementRept:
		req := report.CreateRequest{
			Title:    call.Args["title"],
			Content:  call.Args["reportContent"],
			Category: call.Args["category"],
		}
		if err := req.Validate(); err != nil {
			return nil, err
		}
		created, err := d.reports.Create(ctx, actor, req)
		if err != nil {
			return nil, err
		}
		return json.Marshal(created)

	default:
		return nil, fmt.Errorf("unknown tool %q", call.Name)
	}
}

func ackPayload(status string) (json.RawMessage, error) {
	return json.Marshal(map[string]string{"status": status})
}
