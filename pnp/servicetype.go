package pnp

import (
	"fmt"
	"strconv"
	"strings"
)

// ServiceType indicates the PnP service a message body belongs to.  On the
// wire, the service is carried as the XML namespace of the body element,
// e.g. urn:cisco:pnp:backoff.
type ServiceType int64

const (
	ServiceBackoff ServiceType = iota + 1
	ServiceCapability
	ServiceCertificateInstall
	ServiceCLIConfig
	ServiceCLIExec
	ServiceConfigUpgrade
	ServiceDeviceAuth
	ServiceDeviceInfo
	ServiceFileTransfer
	ServiceImageInstall
	ServiceLicensing
	ServiceRedirection
	ServiceReload
	ServiceScript
	ServiceSMU
	ServiceTopology
	ServiceWorkInfo
	ServiceFault
	lastServiceType

	// ServiceUnknown marks a body whose namespace is not part of the protocol.
	// Such messages decode successfully and are rejected at dispatch time.
	ServiceUnknown ServiceType = -1

	InvalidServiceTypeString = "!!INVALID!!"
)

// friendlyNames are the namespace suffixes of each service, which double as
// the human-readable service names used in logs and configuration.
var friendlyNames = map[ServiceType]string{
	ServiceBackoff:            "backoff",
	ServiceCapability:         "capability",
	ServiceCertificateInstall: "certificate-install",
	ServiceCLIConfig:          "cli-config",
	ServiceCLIExec:            "cli-exec",
	ServiceConfigUpgrade:      "config-upgrade",
	ServiceDeviceAuth:         "device-auth",
	ServiceDeviceInfo:         "device-info",
	ServiceFileTransfer:       "file-transfer",
	ServiceImageInstall:       "image-install",
	ServiceLicensing:          "licensing",
	ServiceRedirection:        "redirection",
	ServiceReload:             "reload",
	ServiceScript:             "script",
	ServiceSMU:                "smu",
	ServiceTopology:           "topology",
	ServiceWorkInfo:           "work-info",
	ServiceFault:              "fault",
}

var (
	// stringToServiceType is a map of allowed strings which uniquely indicate
	// ServiceType values.  Included in this map are integral string keys,
	// friendly names and full namespaces.
	stringToServiceType map[string]ServiceType

	// namespaceToServiceType resolves a body namespace to its service.
	namespaceToServiceType map[string]ServiceType
)

func init() {
	stringToServiceType = make(map[string]ServiceType, 3*len(friendlyNames))
	namespaceToServiceType = make(map[string]ServiceType, len(friendlyNames))

	for v := ServiceBackoff; v < lastServiceType; v++ {
		f := friendlyNames[v]
		ns := NamespacePrefix + f

		stringToServiceType[strconv.Itoa(int(v))] = v
		stringToServiceType[f] = v
		stringToServiceType[ns] = v
		namespaceToServiceType[ns] = v
	}
}

// FriendlyName is the short, human-readable service name, e.g. "backoff".
func (st ServiceType) FriendlyName() string {
	if f, ok := friendlyNames[st]; ok {
		return f
	}

	return InvalidServiceTypeString
}

// Namespace returns the XML namespace carried by body elements of this service.
func (st ServiceType) Namespace() string {
	if f, ok := friendlyNames[st]; ok {
		return NamespacePrefix + f
	}

	return ""
}

func (st ServiceType) String() string {
	return st.FriendlyName()
}

// StringToServiceType converts a string into an enumerated ServiceType
// constant.  The value may be a friendly name, e.g. "cli-config", a full
// namespace, e.g. "urn:cisco:pnp:cli-config", or the integral value of the
// constant.  An error is returned for anything else.
func StringToServiceType(value string) (ServiceType, error) {
	st, ok := stringToServiceType[strings.ToLower(value)]
	if !ok {
		return ServiceUnknown, fmt.Errorf("invalid service type: %s", value)
	}

	return st, nil
}

// NamespaceToServiceType resolves a body namespace, returning ServiceUnknown
// with no error for namespaces outside the protocol.  Dispatch code treats
// ServiceUnknown as its own failure mode, distinct from decode failures.
func NamespaceToServiceType(namespace string) ServiceType {
	if st, ok := namespaceToServiceType[namespace]; ok {
		return st
	}

	return ServiceUnknown
}
