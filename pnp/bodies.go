package pnp

import (
	"encoding/xml"
	"errors"
	"fmt"
)

var (
	ErrBackoffEmpty    = errors.New("pnp: backoff requires a timer, default minutes, or terminate")
	ErrBackoffConflict = errors.New("pnp: backoff timer, default minutes, and terminate are mutually exclusive")
	ErrNoCommands      = errors.New("pnp: at least one command is required")
	ErrNoLocation      = errors.New("pnp: a config file location is required")
)

// marshalContent renders a sequence of sibling elements as body content.
func marshalContent(values ...interface{}) ([]byte, error) {
	var content []byte
	for _, v := range values {
		data, err := xml.Marshal(v)
		if err != nil {
			return nil, err
		}

		content = append(content, data...)
	}

	return content, nil
}

func newRequestBody(service ServiceType, values ...interface{}) (Body, error) {
	content, err := marshalContent(values...)
	if err != nil {
		return Body{}, err
	}

	return Body{Service: service, Kind: KindRequest, Content: content}, nil
}

/*-- backoff -----------------------------------------------------------------*/

// BackoffOptions configures a backoff work request.  Exactly one of the
// callback timer (any of Hours, Minutes, Seconds), DefaultMinutes, or
// Terminate must be specified.
type BackoffOptions struct {
	// Hours, Minutes and Seconds form the callBackAfter timer.
	Hours   int
	Minutes int
	Seconds int

	// DefaultMinutes changes the agent's default backoff timer instead of
	// scheduling a one-shot callback.
	DefaultMinutes int

	// Terminate asks the agent to never connect to this server again and to
	// remove any PnP profile it holds.
	Terminate bool

	// Reason is reported to the agent.  Defaults to "No Reason".
	Reason string
}

type callBackAfterElement struct {
	Hours   int `xml:"hours,omitempty"`
	Minutes int `xml:"minutes,omitempty"`
	Seconds int `xml:"seconds,omitempty"`
}

type backoffElement struct {
	XMLName        xml.Name              `xml:"backoff"`
	Reason         string                `xml:"reason"`
	Terminate      *struct{}             `xml:"terminate,omitempty"`
	DefaultMinutes int                   `xml:"defaultMinutes,omitempty"`
	CallBackAfter  *callBackAfterElement `xml:"callBackAfter,omitempty"`
}

// NewBackoff builds a backoff request body, informing the agent to connect
// back after some time, or never again.
func NewBackoff(o BackoffOptions) (Body, error) {
	element := backoffElement{Reason: o.Reason}
	if len(element.Reason) == 0 {
		element.Reason = "No Reason"
	}

	modes := 0
	if o.Terminate {
		element.Terminate = &struct{}{}
		modes++
	}

	if o.DefaultMinutes > 0 {
		element.DefaultMinutes = o.DefaultMinutes
		modes++
	}

	if o.Hours > 0 || o.Minutes > 0 || o.Seconds > 0 {
		element.CallBackAfter = &callBackAfterElement{
			Hours:   o.Hours,
			Minutes: o.Minutes,
			Seconds: o.Seconds,
		}

		modes++
	}

	switch {
	case modes == 0:
		return Body{}, ErrBackoffEmpty
	case modes > 1:
		return Body{}, ErrBackoffConflict
	}

	return newRequestBody(ServiceBackoff, &element)
}

/*-- device-info -------------------------------------------------------------*/

type deviceInfoElement struct {
	XMLName xml.Name `xml:"deviceInfo"`
	Type    string   `xml:"type,attr"`
}

// NewDeviceInfo builds a request for the device's profile.  The info type
// selects the sections to be sent: "image", "hardware", "filesystem", "udi",
// "profile" or "all".  An empty type defaults to "all".
func NewDeviceInfo(infoType string) (Body, error) {
	if len(infoType) == 0 {
		infoType = "all"
	}

	switch infoType {
	case "image", "hardware", "filesystem", "udi", "profile", "all":
	default:
		return Body{}, fmt.Errorf("pnp: invalid device info type: %s", infoType)
	}

	return newRequestBody(ServiceDeviceInfo, &deviceInfoElement{Type: infoType})
}

/*-- config-upgrade ----------------------------------------------------------*/

// ReloadOptions describes the device reload performed after a config upgrade.
type ReloadOptions struct {
	// Reason for the reload.  Defaults to "PnP config upgrade".
	Reason string

	// Delay before reloading.
	Delay int

	// User that initiated the reload.  Defaults to "PnP Agent".
	User string

	// NoSave skips saving the configuration before the reload.
	NoSave bool
}

// ConfigUpgradeOptions configures a config-upgrade work request.
type ConfigUpgradeOptions struct {
	// Location is the config file URL.  Required.
	Location string

	// Checksum validates the config file.  Ignored when empty.
	Checksum string

	// Details is the level of error detail reported: "brief", "errors" or
	// "all".  Defaults to "all".
	Details string

	// ApplyTo selects the configuration to modify: "startup", "running" or
	// "AP".  Defaults to "startup".
	ApplyTo string

	// AbortOnSyntaxFault makes the agent abort execution when it encounters
	// a syntax error.
	AbortOnSyntaxFault bool

	// NoReload suppresses the device reload after the operation.
	NoReload bool

	// Reload configures the reload when NoReload is unset.
	Reload ReloadOptions
}

type configSourceElement struct {
	Location string `xml:"location"`
	Checksum string `xml:"checksum,omitempty"`
}

type configCopyElement struct {
	Source  configSourceElement `xml:"source"`
	ApplyTo string              `xml:"applyTo"`
}

type configElement struct {
	XMLName xml.Name          `xml:"config"`
	Details string            `xml:"details,attr"`
	Copy    configCopyElement `xml:"copy"`
}

type reloadElement struct {
	XMLName    xml.Name `xml:"reload"`
	Reason     string   `xml:"reason"`
	DelayIn    int      `xml:"delayIn"`
	User       string   `xml:"user"`
	SaveConfig int      `xml:"saveConfig"`
}

type noReloadElement struct {
	XMLName xml.Name `xml:"noReload"`
}

type abortOnSyntaxFaultElement struct {
	XMLName xml.Name `xml:"abortOnSyntaxFault"`
}

// NewConfigUpgrade builds a request to download and apply the configuration
// at the given location.
func NewConfigUpgrade(o ConfigUpgradeOptions) (Body, error) {
	if len(o.Location) == 0 {
		return Body{}, ErrNoLocation
	}

	details, err := detailsLevel(o.Details)
	if err != nil {
		return Body{}, err
	}

	applyTo := o.ApplyTo
	switch applyTo {
	case "":
		applyTo = "startup"
	case "startup", "running", "AP":
	default:
		return Body{}, fmt.Errorf("pnp: invalid applyTo: %s", o.ApplyTo)
	}

	values := []interface{}{
		&configElement{
			Details: details,
			Copy: configCopyElement{
				Source: configSourceElement{
					Location: o.Location,
					Checksum: o.Checksum,
				},
				ApplyTo: applyTo,
			},
		},
	}

	if o.NoReload {
		values = append(values, &noReloadElement{})
	} else {
		reload := reloadElement{
			Reason:     o.Reload.Reason,
			DelayIn:    o.Reload.Delay,
			User:       o.Reload.User,
			SaveConfig: 1,
		}

		if len(reload.Reason) == 0 {
			reload.Reason = "PnP config upgrade"
		}

		if len(reload.User) == 0 {
			reload.User = "PnP Agent"
		}

		if o.Reload.NoSave {
			reload.SaveConfig = 0
		}

		values = append(values, &reload)
	}

	if o.AbortOnSyntaxFault {
		values = append(values, &abortOnSyntaxFaultElement{})
	}

	return newRequestBody(ServiceConfigUpgrade, values...)
}

func detailsLevel(details string) (string, error) {
	switch details {
	case "":
		return "all", nil
	case "brief", "errors", "all":
		return details, nil
	}

	return "", fmt.Errorf("pnp: invalid details level: %s", details)
}

/*-- cli-config --------------------------------------------------------------*/

// CLIConfigOptions configures a cli-config work request.
type CLIConfigOptions struct {
	// Commands are the configuration CLI commands to execute.  Required.
	Commands []string

	// Details is the level of error detail reported.  Defaults to "all".
	Details string

	// Check performs a syntax check only, without applying the change.
	Check bool

	// OnFail is the action taken when a command fails: "continue", "stop"
	// or "rollback".  Defaults to "continue".  Ignored when Check is set.
	OnFail string

	// Persist saves the running config to the startup config afterwards.
	// Ignored when Check is set.
	Persist bool
}

type cliConfigDataElement struct {
	Commands []string `xml:"cli-config-data>cmd"`
}

type configApplyElement struct {
	XMLName      xml.Name             `xml:"configApply"`
	Details      string               `xml:"details,attr"`
	ActionOnFail string               `xml:"action-on-fail,attr"`
	Data         cliConfigDataElement `xml:"config-data"`
}

type configTestElement struct {
	XMLName xml.Name             `xml:"configTest"`
	Details string               `xml:"details,attr"`
	Data    cliConfigDataElement `xml:"config-data"`
}

type configPersistElement struct {
	XMLName xml.Name `xml:"configPersist"`
}

// NewCLIConfig builds a request to execute configuration CLI commands.
func NewCLIConfig(o CLIConfigOptions) (Body, error) {
	if len(o.Commands) == 0 {
		return Body{}, ErrNoCommands
	}

	details, err := detailsLevel(o.Details)
	if err != nil {
		return Body{}, err
	}

	data := cliConfigDataElement{Commands: o.Commands}
	if o.Check {
		return newRequestBody(ServiceCLIConfig, &configTestElement{
			Details: details,
			Data:    data,
		})
	}

	onFail := o.OnFail
	switch onFail {
	case "":
		onFail = "continue"
	case "continue", "stop", "rollback":
	default:
		return Body{}, fmt.Errorf("pnp: invalid action-on-fail: %s", o.OnFail)
	}

	values := []interface{}{
		&configApplyElement{
			Details:      details,
			ActionOnFail: onFail,
			Data:         data,
		},
	}

	if o.Persist {
		values = append(values, &configPersistElement{})
	}

	return newRequestBody(ServiceCLIConfig, values...)
}

/*-- cli-exec ----------------------------------------------------------------*/

// Dialog is an expect/reply pair executed by the agent during cli-exec.
type Dialog struct {
	Expect string
	Reply  string

	// Match is the expect matching mode.  Defaults to "exact".
	Match string

	// CaseInsensitive disables case-sensitive matching.
	CaseInsensitive bool

	// Repeat is the number of times the dialog may trigger.  Defaults to 1.
	Repeat int
}

// CLIExecOptions configures a cli-exec work request.
type CLIExecOptions struct {
	// Commands are the exec level CLI commands to execute.  Required.
	Commands []string

	// Dialogs are interactive expect/reply pairs executed after Commands.
	Dialogs []Dialog

	// Details is the level of error detail reported.  Defaults to "all".
	Details string

	// MaxWait is the per-command wait in seconds.  Defaults to 10.
	MaxWait int

	// MaxResponseSize caps the response size, 0 meaning unlimited.
	MaxResponseSize int

	// Check performs a syntax check only, without executing.
	Check bool
}

type expectElement struct {
	Match         string `xml:"match,attr"`
	CaseSensitive bool   `xml:"caseSensitive,attr"`
	Value         string `xml:",chardata"`
}

type dialogElement struct {
	Repeat int           `xml:"repeat,attr"`
	Expect expectElement `xml:"expect"`
	Reply  string        `xml:"reply"`
}

type execCLIElement struct {
	XMLName         xml.Name        `xml:"execCLI"`
	MaxWait         string          `xml:"maxWait,attr"`
	MaxResponseSize int             `xml:"maxResponseSize,attr"`
	Commands        []string        `xml:"cmd"`
	Dialogs         []dialogElement `xml:"dialog"`
}

type cliExecDataElement struct {
	Commands []string `xml:"cli-exec-data>cmd"`
}

type execTestElement struct {
	XMLName xml.Name           `xml:"execTest"`
	Details string             `xml:"details,attr"`
	Data    cliExecDataElement `xml:"exec-data"`
}

// NewCLIExec builds a request to execute exec level CLI commands.
func NewCLIExec(o CLIExecOptions) (Body, error) {
	if len(o.Commands) == 0 && len(o.Dialogs) == 0 {
		return Body{}, ErrNoCommands
	}

	if o.Check {
		details, err := detailsLevel(o.Details)
		if err != nil {
			return Body{}, err
		}

		return newRequestBody(ServiceCLIExec, &execTestElement{
			Details: details,
			Data:    cliExecDataElement{Commands: o.Commands},
		})
	}

	maxWait := o.MaxWait
	if maxWait <= 0 {
		maxWait = 10
	}

	element := execCLIElement{
		MaxWait:         fmt.Sprintf("PT%dS", maxWait),
		MaxResponseSize: o.MaxResponseSize,
		Commands:        o.Commands,
	}

	for _, d := range o.Dialogs {
		match := d.Match
		if len(match) == 0 {
			match = "exact"
		}

		repeat := d.Repeat
		if repeat <= 0 {
			repeat = 1
		}

		element.Dialogs = append(element.Dialogs, dialogElement{
			Repeat: repeat,
			Expect: expectElement{
				Match:         match,
				CaseSensitive: !d.CaseInsensitive,
				Value:         d.Expect,
			},
			Reply: d.Reply,
		})
	}

	return newRequestBody(ServiceCLIExec, &element)
}

/*-- work-info ---------------------------------------------------------------*/

type workInfoElement struct {
	XMLName xml.Name `xml:"workInfo"`
	Bye     struct{} `xml:"bye"`
}

// NewBye builds the work-info body acknowledging receipt of a PnP response
// and signalling the end of the transaction.  Only applicable when the
// transport is HTTP or HTTPS.
func NewBye() Body {
	content, err := marshalContent(&workInfoElement{})
	if err != nil {
		content = nil
	}

	return Body{Service: ServiceWorkInfo, Kind: KindInfo, Content: content}
}
