package control

import "fmt"

// ErrorCode is the HCI status carried by a NAK response.
type ErrorCode uint16

// Code 18 is listed twice in the host tool's table. Its dictionary kept the
// later entry, so at runtime the tool printed "Invalid HCI Command
// Parameters or 0x30: ...". This table keeps the first description.
var errorDescriptions = map[ErrorCode]string{
	0:  "Success",
	2:  "Unknown Connection Identifier",
	6:  "Pin or Key Missing",
	7:  "Memory Capacity Exceeded",
	8:  "Connection Timeout",
	9:  "Connection Limit Exceeded",
	12: "Command Disallowed",
	13: "Command Rejected Due To Limited Resources",
	17: "Unsupported Feature or Parameter Value",
	18: "Invalid HCI Command Parameters",
	19: "Remote User Terminated Connection",
	20: "Remote Device Terminated Connection Due To Low Resources",
	21: "Remote Device Terminated Connection Due To Power Off",
	22: "Connection Terminated By Local Host",
	26: "Unsupported Remote Feature",
	31: "Unspecified Error",
	33: "Role Change Not Allowed",
	34: "Link Layer Response Timeout",
	40: "Instant Passed",
	48: "Parameter Out Of Mandatory Range",
	58: "Controller Busy",
	59: "Unacceptable Connection Interval",
	60: "Directed Advertising Timeout",
	61: "Connection Terminated Due To MIC Failure",
	62: "Connection Failed To Be Established",
	63: "MAC Connection Failed",
}

// Description returns the documented meaning of e.
func (e ErrorCode) Description() (string, bool) {
	s, ok := errorDescriptions[e]
	return s, ok
}

func (e ErrorCode) String() string {
	if s, ok := errorDescriptions[e]; ok {
		return fmt.Sprintf("%d (%s)", uint16(e), s)
	}
	return fmt.Sprintf("%d (undocumented)", uint16(e))
}
