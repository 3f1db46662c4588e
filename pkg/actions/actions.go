// Package actions wires the built-in action executors into a registry.
package actions

import (
	"github.com/juriflow/juriflow/pkg/actions/assignuser"
	"github.com/juriflow/juriflow/pkg/actions/createnotification"
	"github.com/juriflow/juriflow/pkg/actions/createtask"
	"github.com/juriflow/juriflow/pkg/actions/generatedocument"
	"github.com/juriflow/juriflow/pkg/actions/runscript"
	"github.com/juriflow/juriflow/pkg/actions/sendemail"
	"github.com/juriflow/juriflow/pkg/actions/updatestatus"
	"github.com/juriflow/juriflow/pkg/actions/webhook"
	"github.com/juriflow/juriflow/pkg/eventbus"
	"github.com/juriflow/juriflow/pkg/registry"
)

// RegisterAll registers every built-in action factory. Side-effect requests
// are published to the given publisher for external collaborators.
func RegisterAll(r *registry.Registry, publisher eventbus.EventPublisher) {
	r.RegisterAction(sendemail.NewActionFactory(publisher))
	r.RegisterAction(createtask.NewActionFactory(publisher))
	r.RegisterAction(updatestatus.NewActionFactory(publisher))
	r.RegisterAction(assignuser.NewActionFactory(publisher))
	r.RegisterAction(generatedocument.NewActionFactory(publisher))
	r.RegisterAction(createnotification.NewActionFactory(publisher))
	r.RegisterAction(webhook.NewActionFactory())
	r.RegisterAction(runscript.NewActionFactory(publisher))
}
