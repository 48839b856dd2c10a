package main

import (
	"os"

	"github.com/duke605/tmdb-search/utils"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var closeContainer = func() {}

func loadContainer() {
	ctn := utils.Must(newContainer(afero.NewOsFs(), configFile))
	srvCtn = ctn
	closeContainer = func() { ctn.Delete() }
}

func main() {
	cobra.OnInitialize(loadContainer)

	err := rootCommand.Execute()
	closeContainer()
	if err != nil {
		os.Exit(1)
	}
}
