package syplug

import (
	"embed"

	"github.com/frostime/siyuan-plugin-cli/pkg/cobrax/topics"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

//go:embed topics/*.md
var topicFiles embed.FS

// initTopics adds the embedded help topics to root
func initTopics(root *cobra.Command) {
	var renderer topics.Renderer = topics.PlainRenderer{}
	if stdoutIsTerminal() {
		renderer = topics.GlamourRenderer{Width: 80}
	}

	m, err := topics.Load(topicFiles, "topics", topics.Options{Renderer: renderer})
	if err != nil {
		log.Debug().Err(err).Msg("Help topics unavailable")
		return
	}
	m.Install(root)
}
