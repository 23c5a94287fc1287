// Package commands implements the administrative command surface:
// parsing, argument validation, owner/admin authorization and dispatch.
// One dispatcher serves both deployment flavors; the capability set
// decides how much of the table is installed.
package commands

import (
	"chat-guard/contract"
	"chat-guard/domain"
	"chat-guard/domain/event"
	"chat-guard/observability"
	"chat-guard/repositories"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type chatArgs struct {
	ChatID string `validate:"required"`
}

type userArgs struct {
	UserID int64 `validate:"required"`
}

// Capabilities selects the installed command set. The minimal flavor
// carries only approve/approveuser; ExtendedAdmin adds revocation,
// admin management and introspection.
type Capabilities struct {
	ExtendedAdmin bool
}

type handler struct {
	usage     string
	ownerOnly bool
	run       func(ctx context.Context, cmd event.Command, arg string) string
}

// Dispatcher routes admin commands to their handlers. Handlers reply in
// chat; store failures become a generic failure reply and are logged,
// nothing crashes the process.
type Dispatcher struct {
	log       *slog.Logger
	access    repositories.IAccessRepository
	transport contract.Transport
	stats     *observability.Stats
	owner     domain.UserID
	handlers  map[string]handler
}

func NewDispatcher(
	log *slog.Logger,
	access repositories.IAccessRepository,
	transport contract.Transport,
	stats *observability.Stats,
	owner domain.UserID,
	caps Capabilities,
) *Dispatcher {
	d := &Dispatcher{
		log:       log,
		access:    access,
		transport: transport,
		stats:     stats,
		owner:     owner,
		handlers:  make(map[string]handler),
	}
	d.handlers["approve"] = handler{usage: "/approve chat_id", run: d.approveChat}
	d.handlers["approveuser"] = handler{usage: "/approveuser user_id", run: d.approveUser}
	if caps.ExtendedAdmin {
		d.handlers["unapprove"] = handler{usage: "/unapprove chat_id", run: d.unapproveChat}
		d.handlers["unapproveuser"] = handler{usage: "/unapproveuser user_id", run: d.unapproveUser}
		d.handlers["makeadmin"] = handler{usage: "/makeadmin user_id", ownerOnly: true, run: d.makeAdmin}
		d.handlers["help"] = handler{usage: "/help", run: d.help}
		d.handlers["uptime"] = handler{usage: "/uptime", ownerOnly: true, run: d.uptime}
		d.handlers["status"] = handler{usage: "/status", ownerOnly: true, run: d.status}
	}
	return d
}

// Dispatch parses and executes one command event. Unknown commands and
// unauthorized invokers are ignored without a reply, matching the
// passive posture of the bot outside its command surface.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd event.Command) {
	name, arg := splitCommand(cmd.Text)
	if name == "" {
		return
	}
	h, ok := d.handlers[name]
	if !ok {
		d.log.Debug("Unknown command ignored", "command", name, "user", cmd.User)
		return
	}
	if !d.authorized(h, cmd.User) {
		d.log.Debug("Unauthorized command ignored", "command", name, "user", cmd.User)
		return
	}

	reply := h.run(ctx, cmd, arg)
	if reply == "" {
		return
	}
	if err := d.transport.SendMessage(ctx, cmd.Chat, reply); err != nil {
		d.stats.IncrTransportErrors()
		d.log.Error("Command reply failed", "command", name, "chat", cmd.Chat, "error", err)
	}
}

// splitCommand extracts the bare command name and its argument string
// from "/name[@bot] arg...".
func splitCommand(text string) (string, string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", ""
	}
	name, arg, _ := strings.Cut(text[1:], " ")
	name, _, _ = strings.Cut(name, "@")
	return strings.ToLower(name), strings.TrimSpace(arg)
}

func (d *Dispatcher) authorized(h handler, user domain.UserID) bool {
	if h.ownerOnly {
		return user == d.owner
	}
	admin, err := d.access.IsAdmin(user)
	if err != nil {
		d.stats.IncrStoreErrors()
		d.log.Error("Admin lookup failed", "user", user, "error", err)
		return false
	}
	return admin
}

func (d *Dispatcher) approveChat(_ context.Context, cmd event.Command, arg string) string {
	args := chatArgs{ChatID: arg}
	if err := validate.Struct(args); err != nil {
		return "Usage: /approve chat_id"
	}
	already, err := d.access.ApproveChat(domain.ChatID(args.ChatID))
	if err != nil {
		d.stats.IncrStoreErrors()
		d.log.Error("Chat approval failed", "chat", args.ChatID, "by", cmd.User, "error", err)
		return "An error occurred while approving the chat ID."
	}
	d.log.Info("Chat approved", "chat", args.ChatID, "by", cmd.User)
	if already {
		return fmt.Sprintf("Chat ID %s is already approved.", args.ChatID)
	}
	return fmt.Sprintf("Chat ID %s has been approved.", args.ChatID)
}

func (d *Dispatcher) unapproveChat(_ context.Context, cmd event.Command, arg string) string {
	args := chatArgs{ChatID: arg}
	if err := validate.Struct(args); err != nil {
		return "Usage: /unapprove chat_id"
	}
	was, err := d.access.UnapproveChat(domain.ChatID(args.ChatID))
	if err != nil {
		d.stats.IncrStoreErrors()
		d.log.Error("Chat unapproval failed", "chat", args.ChatID, "by", cmd.User, "error", err)
		return "An error occurred while unapproving the chat ID."
	}
	d.log.Info("Chat unapproved", "chat", args.ChatID, "by", cmd.User)
	if !was {
		return fmt.Sprintf("Chat ID %s is not approved.", args.ChatID)
	}
	return fmt.Sprintf("Chat ID %s has been unapproved.", args.ChatID)
}

func (d *Dispatcher) approveUser(_ context.Context, cmd event.Command, arg string) string {
	user, ok := parseUserArg(arg)
	if !ok {
		return "Usage: /approveuser user_id"
	}
	already, err := d.access.ApproveUser(user)
	if err != nil {
		d.stats.IncrStoreErrors()
		d.log.Error("User approval failed", "user", user, "by", cmd.User, "error", err)
		return "An error occurred while approving the user ID."
	}
	d.log.Info("User approved", "user", user, "by", cmd.User)
	if already {
		return fmt.Sprintf("User ID %d is already approved.", user)
	}
	return fmt.Sprintf("User ID %d has been approved.", user)
}

func (d *Dispatcher) unapproveUser(_ context.Context, cmd event.Command, arg string) string {
	user, ok := parseUserArg(arg)
	if !ok {
		return "Usage: /unapproveuser user_id"
	}
	was, err := d.access.UnapproveUser(user)
	if err != nil {
		d.stats.IncrStoreErrors()
		d.log.Error("User unapproval failed", "user", user, "by", cmd.User, "error", err)
		return "An error occurred while unapproving the user ID."
	}
	d.log.Info("User unapproved", "user", user, "by", cmd.User)
	if !was {
		return fmt.Sprintf("User ID %d is not approved.", user)
	}
	return fmt.Sprintf("User ID %d has been unapproved.", user)
}

func (d *Dispatcher) makeAdmin(_ context.Context, cmd event.Command, arg string) string {
	user, ok := parseUserArg(arg)
	if !ok {
		return "Usage: /makeadmin user_id"
	}
	already, err := d.access.MakeAdmin(user)
	if err != nil {
		d.stats.IncrStoreErrors()
		d.log.Error("Admin grant failed", "user", user, "by", cmd.User, "error", err)
		return "An error occurred while making the user an admin."
	}
	d.log.Info("Admin granted", "user", user, "by", cmd.User)
	if already {
		return fmt.Sprintf("User ID %d is already an admin.", user)
	}
	return fmt.Sprintf("User ID %d has been made an admin.", user)
}

func (d *Dispatcher) help(context.Context, event.Command, string) string {
	return `Available Commands:
/approve chat_id - Approve a chat
/unapprove chat_id - Unapprove a chat
/approveuser user_id - Approve a user
/unapproveuser user_id - Unapprove a user
/makeadmin user_id - Make a user an admin -- USABLE BY OWNER ONLY`
}

func parseUserArg(arg string) (domain.UserID, bool) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, false
	}
	if err = validate.Struct(userArgs{UserID: id}); err != nil {
		return 0, false
	}
	return domain.UserID(id), true
}
