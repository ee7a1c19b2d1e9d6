package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/frostime/siyuan-plugin-cli/cmd/syplug"
	"github.com/frostime/siyuan-plugin-cli/pkg/errors"
	"github.com/frostime/siyuan-plugin-cli/pkg/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := syplug.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, ui.ErrorStyle.Render(fmt.Sprintf("Error: %s", errors.UserMessage(err))))
		stop()
		os.Exit(1)
	}
}
