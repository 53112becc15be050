package main

import (
	"fmt"
	"os"

	sentinel1 "github.com/d-murashkin/sentinel1-routines"
	"github.com/d-murashkin/sentinel1-routines/log"

	cli "gopkg.in/urfave/cli.v1"
)

func createCliApp() (app *cli.App) {
	app = cli.NewApp()
	app.Name = "apply_calibration"
	app.Usage = "convert a Sentinel-1 EW scene into a calibrated GeoTIFF (HH/HV backscatter in dB)"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "i",
			Usage: "input scene (.zip archive or unpacked .SAFE folder)",
		},
		cli.StringFlag{
			Name:  "o",
			Usage: "output GeoTIFF path",
		},
	}
	app.Action = calibrateAction
	return
}

func calibrateAction(c *cli.Context) error {
	input := c.String("i")
	output := c.String("o")
	if input == "" || output == "" {
		return cli.NewExitError("both -i <input_path> and -o <output_path> are required", 1)
	}
	if err := sentinel1.Calibrated(input, output); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	return nil
}

func main() {
	defer log.Sync()
	if err := createCliApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
