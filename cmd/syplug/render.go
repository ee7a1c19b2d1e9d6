package syplug

import (
	"fmt"

	"github.com/frostime/siyuan-plugin-cli/pkg/commands"
	"github.com/frostime/siyuan-plugin-cli/pkg/link"
	"github.com/frostime/siyuan-plugin-cli/pkg/ui"
)

func renderLink(p *ui.Printer, res *commands.LinkResult) {
	dst, src := p.Path(res.InstallPath), p.Path(res.Source)
	switch res.Action {
	case link.Created:
		p.Success(MsgLinkCreated, dst, src)
	case link.AlreadyLinked:
		p.Info(MsgLinkKept, dst, src)
	case link.Declined:
		p.Println(MsgLinkAborted)
	case link.Replaced:
		p.Success(MsgLinkReplaced, dst, src)
		p.Println(p.Muted(fmt.Sprintf(MsgLinkPrevious, res.Previous.Target)))
	}
}

func renderInstall(p *ui.Printer, res *commands.InstallResult) {
	if res.RemovedLink != "" {
		p.Info(MsgInstallRemovedLink, p.Path(res.RemovedLink))
	}
	p.Success(MsgInstallDone, res.Files, p.Path(res.Source), p.Path(res.InstallPath))
}

func renderBump(p *ui.Printer, res *commands.BumpResult) {
	if !res.Changed {
		p.Println(res.Skipped)
		return
	}
	p.Success(MsgBumpDone, p.Version(res.Previous), p.Version(res.Version))
	for _, f := range res.Files {
		p.Println(fmt.Sprintf(MsgBumpFile, p.Path(f)))
	}
}

func renderCreate(p *ui.Printer, res *commands.CreateResult) error {
	if res.Cancelled {
		p.Println(MsgCreateCancelled)
		return nil
	}
	p.Success(MsgCreateDone, p.Accent(res.Name), res.Template.Name, p.Path(res.Dir))
	if res.Published != nil {
		renderPublish(p, res.Published)
	}
	return p.Markdown(fmt.Sprintf(MsgCreateNext, res.Dir, res.Name))
}

func renderPublish(p *ui.Printer, res *commands.PublishResult) {
	if res.Repository == nil {
		return
	}
	p.Success(MsgPublishDone, p.Accent(res.Repository.HTMLURL))
	if !res.WorkflowWrite {
		p.Warning(MsgPublishNoWorkflow)
	}
}
