// Package gmlan implements the tester side of a GMLAN (GMW3110)
// diagnostic session: programming-mode entry, seed/key security access,
// chunked payload upload and memory reads over an injected transport.
package gmlan

import "fmt"

// Service identifies a diagnostic service. A positive response echoes the
// request service with bit 6 set (request + 0x40).
type Service byte

const (
	ServiceReadMemoryByAddress        Service = 0x23
	ServiceSecurityAccess             Service = 0x27
	ServiceDisableNormalCommunication Service = 0x28
	ServiceRequestDownload            Service = 0x34
	ServiceTransferData               Service = 0x36
	ServiceTesterPresent              Service = 0x3E
	ServiceNegativeResponse           Service = 0x7F
	ServiceReportProgrammedState      Service = 0xA2
	ServiceProgrammingMode            Service = 0xA5
)

// PositiveResponse returns the service code the ECU answers with on
// success.
func (s Service) PositiveResponse() Service {
	return s + 0x40
}

func (s Service) String() string {
	switch s {
	case ServiceReadMemoryByAddress:
		return "ReadMemoryByAddress"
	case ServiceSecurityAccess:
		return "SecurityAccess"
	case ServiceDisableNormalCommunication:
		return "DisableNormalCommunication"
	case ServiceRequestDownload:
		return "RequestDownload"
	case ServiceTransferData:
		return "TransferData"
	case ServiceTesterPresent:
		return "TesterPresent"
	case ServiceNegativeResponse:
		return "NegativeResponse"
	case ServiceReportProgrammedState:
		return "ReportProgrammedState"
	case ServiceProgrammingMode:
		return "ProgrammingMode"
	}
	return fmt.Sprintf("Service(0x%02X)", byte(s))
}

// ProgrammingMode sub-function parameters.
const (
	SubRequestProgrammingMode byte = 0x01
	SubEnableProgrammingMode  byte = 0x03
)

// ReturnCode is the code carried by a negative response.
type ReturnCode byte

const (
	ReturnGeneralReject                  ReturnCode = 0x10
	ReturnServiceNotSupported            ReturnCode = 0x11
	ReturnSubFunctionNotSupported        ReturnCode = 0x12
	ReturnBusyRepeatRequest              ReturnCode = 0x21
	ReturnConditionsNotCorrect           ReturnCode = 0x22
	ReturnRequestOutOfRange              ReturnCode = 0x31
	ReturnSecurityAccessDenied           ReturnCode = 0x33
	ReturnInvalidKey                     ReturnCode = 0x35
	ReturnExceedNumberOfAttempts         ReturnCode = 0x36
	ReturnRequiredTimeDelayNotExpired    ReturnCode = 0x37
	ReturnResponsePending                ReturnCode = 0x78
	ReturnVoltageOutOfRange              ReturnCode = 0x83
	ReturnGeneralProgrammingFailure      ReturnCode = 0x85
	ReturnDeviceControlLimitsExceeded    ReturnCode = 0xE3
	ReturnDeviceTypeError                ReturnCode = 0x89
	ReturnReadyForDownload               ReturnCode = 0x99
	ReturnSchedulerFull                  ReturnCode = 0x81
)

var returnCodeNames = map[ReturnCode]string{
	ReturnGeneralReject:               "general reject",
	ReturnServiceNotSupported:         "service not supported",
	ReturnSubFunctionNotSupported:     "sub-function not supported or invalid format",
	ReturnBusyRepeatRequest:           "busy, repeat request",
	ReturnConditionsNotCorrect:        "conditions not correct or request sequence error",
	ReturnRequestOutOfRange:           "request out of range",
	ReturnSecurityAccessDenied:        "security access denied",
	ReturnInvalidKey:                  "invalid key",
	ReturnExceedNumberOfAttempts:      "exceeded number of security access attempts",
	ReturnRequiredTimeDelayNotExpired: "required time delay not expired",
	ReturnResponsePending:             "request correctly received, response pending",
	ReturnVoltageOutOfRange:           "voltage out of range",
	ReturnGeneralProgrammingFailure:   "general programming failure",
	ReturnDeviceControlLimitsExceeded: "device control limits exceeded",
	ReturnDeviceTypeError:             "device type error",
	ReturnReadyForDownload:            "ready for download, DTC stored",
	ReturnSchedulerFull:               "scheduler full",
}

func (rc ReturnCode) String() string {
	if name, ok := returnCodeNames[rc]; ok {
		return fmt.Sprintf("%s (0x%02X)", name, byte(rc))
	}
	return fmt.Sprintf("return code 0x%02X", byte(rc))
}
