// Package spec defines the request-code sets of the vhost-user GPU control
// channel, the socket negotiated via VHOST_USER_SET_GPU_SOCKET.
// See: https://www.qemu.org/docs/master/interop/vhost-user-gpu.html
package spec

// Request is the capability a code set must provide to tag a control header.
// The underlying type is the 32-bit wire representation; Known reports
// membership in the closed set.
type Request interface {
	~uint32
	Known() bool
	String() string
}

// BackendReq identifies a request sent from a GPU backend (renderer/display
// server) to a GPU frontend (VM device emulation). Values are wire ABI:
// dense, 1-based, fixed by the protocol specification.
type BackendReq uint32

const (
	// GetProtocolFeatures asks for the supported protocol feature bitmask.
	GetProtocolFeatures BackendReq = 1
	// SetProtocolFeatures enables protocol features from a bitmask.
	SetProtocolFeatures BackendReq = 2
	// GetDisplayInfo asks for the preferred display configuration.
	GetDisplayInfo BackendReq = 3
	// CursorPos sets/shows the cursor position.
	CursorPos BackendReq = 4
	// CursorPosHide hides the cursor.
	CursorPosHide BackendReq = 5
	// Scanout sets the scanout resolution. Width/height 0 disables it.
	Scanout BackendReq = 6
	// Update carries graphical bits for a scanout region to be flushed
	// and presented.
	Update BackendReq = 7
	// DmabufScanout configures a scanout backed by a DMABUF file
	// descriptor passed as ancillary data.
	DmabufScanout BackendReq = 8
	// DmabufUpdate asks to flush and present a region of a scanout that
	// was shared via DmabufScanout; it carries no graphical payload.
	DmabufUpdate BackendReq = 9
	// GetEDID retrieves the EDID blob of a scanout. Requires FeatureEDID.
	GetEDID BackendReq = 10
	// DmabufScanout2 is DmabufScanout plus the dmabuf modifiers. Requires
	// FeatureDMABUF2.
	DmabufScanout2 BackendReq = 11
)

// Protocol feature bits exchanged via GetProtocolFeatures/SetProtocolFeatures.
const (
	FeatureEDID    uint64 = 1 << 0
	FeatureDMABUF2 uint64 = 1 << 1
)

// Known reports whether r is one of the declared backend requests.
func (r BackendReq) Known() bool {
	return r >= GetProtocolFeatures && r <= DmabufScanout2
}

// String returns a human-readable name for the request code.
func (r BackendReq) String() string {
	switch r {
	case GetProtocolFeatures:
		return "GetProtocolFeatures"
	case SetProtocolFeatures:
		return "SetProtocolFeatures"
	case GetDisplayInfo:
		return "GetDisplayInfo"
	case CursorPos:
		return "CursorPos"
	case CursorPosHide:
		return "CursorPosHide"
	case Scanout:
		return "Scanout"
	case Update:
		return "Update"
	case DmabufScanout:
		return "DmabufScanout"
	case DmabufUpdate:
		return "DmabufUpdate"
	case GetEDID:
		return "GetEDID"
	case DmabufScanout2:
		return "DmabufScanout2"
	default:
		return "Unknown"
	}
}
