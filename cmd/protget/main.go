package main

import (
	"context"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/legaia-mod/protdat-get/protdat"
	"github.com/legaia-mod/protdat-get/protdat/logger"
	"github.com/legaia-mod/protdat-get/protdat/report"
	"github.com/legaia-mod/protdat-get/protdat/storage"
)

var (
	verbose    bool
	debug      bool
	outputDir  string
	lenient    bool
	jobs       int
	noProgress bool
	stem       string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "protget",
		Short: "A CLI tool for unpacking Legend of Legaia PROT.DAT containers",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			switch {
			case debug:
				logger.SetLogLevel(logger.LogLevelDebug)
			case verbose:
				logger.SetLogLevel(logger.LogLevelInfo)
			default:
				logger.SetLogLevel(logger.LogLevelWarn)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Debug output")

	// info command
	infoCmd := &cobra.Command{
		Use:   "info <PROT.DAT>",
		Short: "Show the container's TOC header",
		Args:  cobra.ExactArgs(1),
		Run:   runInfo,
	}

	// toc command
	tocCmd := &cobra.Command{
		Use:   "toc <PROT.DAT>",
		Short: "List resolved TOC entries with their accept/reject status",
		Args:  cobra.ExactArgs(1),
		Run:   runTOC,
	}
	tocCmd.Flags().BoolVar(&lenient, "lenient", false, "Accept backward starts instead of rejecting them")

	// unpack command
	unpackCmd := &cobra.Command{
		Use:   "unpack <PROT.DAT>",
		Short: "Extract all assets, splitting embedded TIM packs",
		Args:  cobra.ExactArgs(1),
		Run:   runUnpack,
	}
	unpackCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default: input path without extension)")
	unpackCmd.Flags().BoolVar(&lenient, "lenient", false, "Accept backward starts instead of rejecting them")
	unpackCmd.Flags().IntVar(&jobs, "jobs", 0, "Extraction worker count (default: number of CPUs)")
	unpackCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable progress bar (progress is enabled by default)")
	unpackCmd.Flags().StringVar(&stem, "stem", "", "Asset name prefix (default: input file stem)")

	rootCmd.AddCommand(infoCmd, tocCmd, unpackCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func policy() protdat.Policy {
	if lenient {
		return protdat.PolicyLenient
	}
	return protdat.PolicyStrict
}

func runInfo(cmd *cobra.Command, args []string) {
	container, err := protdat.OpenContainer(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	hdr, err := protdat.LocateHeader(container)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Container: %s (%d bytes, %d sectors)\n", args[0], container.Len(), container.SectorCount())
	fmt.Printf("Header offset:  0x%X\n", hdr.Offset)
	fmt.Printf("File count:     %d\n", hdr.FileCount)
	fmt.Printf("Header size:    0x%X (%d sectors)\n", hdr.HeaderBytes(), hdr.HeaderSectors)
}

func runTOC(cmd *cobra.Command, args []string) {
	container, err := protdat.OpenContainer(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	hdr, err := protdat.LocateHeader(container)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	toc, err := protdat.ParseTOC(container, hdr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	resolved := protdat.ResolveEntries(toc.Entries, hdr.HeaderSectors)
	validator := &protdat.Validator{
		TotalSectors:  container.SectorCount(),
		HeaderSectors: hdr.HeaderSectors,
		Policy:        policy(),
	}
	accepted, rejected := validator.Validate(resolved)

	reasons := make(map[int]protdat.RejectReason, len(rejected))
	for _, r := range rejected {
		reasons[r.Asset.Index] = r.Reason
	}

	fmt.Printf("%-6s %-12s %-10s %-8s %s\n", "index", "offset", "sectors", "delta", "status")
	for _, a := range resolved {
		status := "accepted"
		if a.Placeholder {
			status = "placeholder"
		}
		if reason, ok := reasons[a.Index]; ok {
			status = "rejected: " + string(reason)
		}
		fmt.Printf("%-6d 0x%08X   %-10d %-8d %s\n", a.Index, a.StartByte(), a.SizeSectors, a.Delta, status)
	}
	fmt.Printf("\n%d accepted, %d rejected\n", len(accepted), len(rejected))
}

func runUnpack(cmd *cobra.Command, args []string) {
	input := args[0]

	container, err := protdat.OpenContainer(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	outDir := outputDir
	if outDir == "" {
		outDir = trimExt(input)
	}

	sink, err := storage.NewDirSink(outDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := protdat.Options{
		Policy: policy(),
		Jobs:   jobs,
		Stem:   stem,
	}

	showProgress := !noProgress

	var bar *progressbar.ProgressBar
	var initOnce bool
	if showProgress {
		// The total byte count is only known once the TOC has been
		// validated, so the bar is created on the first callback.
		opts.Progress = func(current, total int64) {
			if !initOnce && total > 0 {
				bar = progressbar.DefaultBytes(total, fmt.Sprintf("Unpacking %s", input))
				initOnce = true
			}
			if bar != nil {
				bar.Set64(current)
			}
		}
	}

	result, err := protdat.Unpack(context.Background(), container, sink, opts)
	if err != nil {
		if showProgress {
			fmt.Fprintln(os.Stderr)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	reportStem := stem
	if reportStem == "" {
		reportStem = container.Stem()
	}
	if err := report.Emit(sink, reportStem, result.Reports); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing index files: %v\n", err)
		os.Exit(1)
	}

	if showProgress && bar != nil {
		fmt.Println()
	}
	extracted := result.Stats.Assets - result.Stats.Failed
	fmt.Printf("Extracted %d/%d assets (%d bytes) to %s", extracted, result.Header.FileCount, result.Stats.BytesWritten, outDir)
	if len(result.Rejected) > 0 {
		fmt.Printf(" (%d rejected)", len(result.Rejected))
	}
	if result.Stats.Failed > 0 {
		fmt.Printf(" (%d failed)", result.Stats.Failed)
	}
	if result.Stats.Packs > 0 {
		fmt.Printf(" (%d TIM packs, %d chunks)", result.Stats.Packs, result.Stats.Chunks)
	}
	fmt.Println()
}

func trimExt(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		switch path[i] {
		case '.':
			return path[:i]
		case '/', '\\':
			return path
		}
	}
	return path
}
