package main

import (
	"bytes"

	"github.com/go-kit/kit/log"
	"github.com/netkea/pnpcommon/dispatch"
	"github.com/netkea/pnpcommon/logging"
	"github.com/netkea/pnpcommon/pnp"
)

// workServices are the protocol services whose results the default
// registrations acknowledge.
var workServices = []pnp.ServiceType{
	pnp.ServiceBackoff,
	pnp.ServiceCapability,
	pnp.ServiceCertificateInstall,
	pnp.ServiceCLIConfig,
	pnp.ServiceCLIExec,
	pnp.ServiceConfigUpgrade,
	pnp.ServiceDeviceAuth,
	pnp.ServiceDeviceInfo,
	pnp.ServiceFileTransfer,
	pnp.ServiceImageInstall,
	pnp.ServiceLicensing,
	pnp.ServiceRedirection,
	pnp.ServiceReload,
	pnp.ServiceScript,
	pnp.ServiceSMU,
	pnp.ServiceTopology,
}

// newRegistry builds the default registration set: agents asking for work
// are backed off per the configuration, and reported work results are
// logged and acknowledged.  Embedders running pnpd as a library would
// overwrite these registrations with real provisioning behavior.
func newRegistry(logger log.Logger, backoff BackoffConfig) (*dispatch.Registry, error) {
	// fail fast on an unusable backoff configuration, before listening
	backoffBody, err := pnp.NewBackoff(pnp.BackoffOptions{
		Hours:          backoff.Hours,
		Minutes:        backoff.Minutes,
		Seconds:        backoff.Seconds,
		DefaultMinutes: backoff.DefaultMinutes,
		Terminate:      backoff.Terminate,
		Reason:         backoff.Reason,
	})
	if err != nil {
		return nil, err
	}

	registry := dispatch.NewRegistry()
	registry.Register(pnp.ServiceWorkInfo, pnp.KindInfo, newWorkInfoHandler(logger, backoffBody))

	acknowledge := newAcknowledgeHandler(logger)
	for _, service := range workServices {
		registry.Register(service, pnp.KindResponse, acknowledge)
	}

	return registry, nil
}

// newWorkInfoHandler answers work queries.  A bye is the agent closing the
// transaction and gets a bare acknowledgement; anything else is told to
// call back later.
func newWorkInfoHandler(logger log.Logger, backoffBody pnp.Body) dispatch.Handler {
	return dispatch.HandlerFunc(func(request *pnp.Envelope) (pnp.Body, error) {
		if bytes.Contains(request.Body.Content, []byte("<bye")) {
			logging.Info(logger,
				logging.CorrelatorKey(), request.Body.Correlator,
			).Log(logging.MessageKey(), "agent transaction complete", "udi", request.UDI)

			return pnp.NewReply(request, nil), nil
		}

		return backoffBody, nil
	})
}

// newAcknowledgeHandler logs a reported work result and closes the
// transaction with a bye.
func newAcknowledgeHandler(logger log.Logger) dispatch.Handler {
	return dispatch.HandlerFunc(func(request *pnp.Envelope) (pnp.Body, error) {
		succeeded := request.Body.Success != nil && *request.Body.Success

		logging.Info(logger,
			logging.ServiceKey(), request.Body.Service,
			logging.CorrelatorKey(), request.Body.Correlator,
		).Log(
			logging.MessageKey(), "agent reported work result",
			"udi", request.UDI,
			"success", succeeded,
		)

		return pnp.NewBye(), nil
	})
}
