package wayland

// Interface names advertised through wl_registry.global.
const (
	ifaceSeat            = "wl_seat"
	ifaceToplevelManager = "zwlr_foreign_toplevel_manager_v1"
	ifaceIdleNotifier    = "ext_idle_notifier_v1"
)

// Highest interface versions this client understands.
const (
	seatVersion            = 1
	toplevelManagerVersion = 3
	idleNotifierVersion    = 1
)

// wl_display is always object 1.
const displayID = 1

// wl_display
const (
	displaySync        = 0
	displayGetRegistry = 1

	displayEventError    = 0
	displayEventDeleteID = 1
)

// wl_registry
const (
	registryBind = 0

	registryEventGlobal       = 0
	registryEventGlobalRemove = 1
)

// wl_callback
const callbackEventDone = 0

// zwlr_foreign_toplevel_manager_v1
const (
	managerStop = 0

	managerEventToplevel = 0
	managerEventFinished = 1
)

// zwlr_foreign_toplevel_handle_v1
const (
	toplevelDestroy = 7

	toplevelEventTitle       = 0
	toplevelEventAppID       = 1
	toplevelEventOutputEnter = 2
	toplevelEventOutputLeave = 3
	toplevelEventState       = 4
	toplevelEventDone        = 5
	toplevelEventClosed      = 6
	toplevelEventParent      = 7
)

// ext_idle_notifier_v1
const idleNotifierGetIdleNotification = 1

// ext_idle_notification_v1
const (
	idleNotificationDestroy = 0

	idleEventIdled   = 0
	idleEventResumed = 1
)

// objectKind tells the dispatcher how to decode events from an object.
type objectKind int

const (
	kindDisplay objectKind = iota
	kindRegistry
	kindCallback
	kindSeat
	kindToplevelManager
	kindToplevel
	kindIdleNotifier
	kindIdleNotification
)

func (k objectKind) String() string {
	switch k {
	case kindDisplay:
		return "wl_display"
	case kindRegistry:
		return "wl_registry"
	case kindCallback:
		return "wl_callback"
	case kindSeat:
		return ifaceSeat
	case kindToplevelManager:
		return ifaceToplevelManager
	case kindToplevel:
		return "zwlr_foreign_toplevel_handle_v1"
	case kindIdleNotifier:
		return ifaceIdleNotifier
	case kindIdleNotification:
		return "ext_idle_notification_v1"
	default:
		return "unknown"
	}
}
