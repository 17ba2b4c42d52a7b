package spec

import "testing"

func TestBackendReqWireValues(t *testing.T) {
	// Wire values are protocol ABI shared with foreign implementations;
	// pin every one of them.
	testCases := []struct {
		req  BackendReq
		wire uint32
	}{
		{GetProtocolFeatures, 1},
		{SetProtocolFeatures, 2},
		{GetDisplayInfo, 3},
		{CursorPos, 4},
		{CursorPosHide, 5},
		{Scanout, 6},
		{Update, 7},
		{DmabufScanout, 8},
		{DmabufUpdate, 9},
		{GetEDID, 10},
		{DmabufScanout2, 11},
	}

	for _, tc := range testCases {
		if uint32(tc.req) != tc.wire {
			t.Errorf("%s encodes to %d, expected %d", tc.req, uint32(tc.req), tc.wire)
		}
	}
}

func TestBackendReqKnown(t *testing.T) {
	for r := GetProtocolFeatures; r <= DmabufScanout2; r++ {
		if !r.Known() {
			t.Errorf("BackendReq(%d) should be known", uint32(r))
		}
	}

	for _, r := range []BackendReq{0, 12, 999, 0xFFFFFFFF} {
		if r.Known() {
			t.Errorf("BackendReq(%d) should not be known", uint32(r))
		}
	}
}

func TestBackendReqString(t *testing.T) {
	testCases := []struct {
		req      BackendReq
		expected string
	}{
		{GetProtocolFeatures, "GetProtocolFeatures"},
		{CursorPos, "CursorPos"},
		{DmabufScanout, "DmabufScanout"},
		{GetEDID, "GetEDID"},
		{DmabufScanout2, "DmabufScanout2"},
		{BackendReq(0), "Unknown"},
		{BackendReq(100), "Unknown"},
	}

	for _, tc := range testCases {
		if tc.req.String() != tc.expected {
			t.Errorf("BackendReq(%d).String() = %q, expected %q",
				uint32(tc.req), tc.req.String(), tc.expected)
		}
	}
}
