package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aden1s/ruphrasehints/internal/app"
	"github.com/aden1s/ruphrasehints/internal/domain/hints"
)

var (
	annotateFlags   engineFlags
	annotateOut     string
	annotateInPlace bool
	annotateReport  bool
)

var annotateCmd = &cobra.Command{
	Use:   "annotate [file|dir ...]",
	Short: "Annotate HTML text with term hints",
	Long: `Annotates HTML with hints for dictionary terms.

With no arguments (or "-") the text is read from stdin and written to stdout.
A single file without --out or --in-place is also written to stdout.
Directories are walked for .html and .htm files.`,
	Example: `  echo '<p>...</p>' | ruhints annotate -d terms.yaml
  ruhints annotate -n main page.html
  ruhints annotate -n main --out build/ site/
  ruhints annotate -d terms.yaml --in-place --report site/`,
	RunE: runAnnotate,
}

func init() {
	annotateFlags.register(annotateCmd)
	f := annotateCmd.Flags()
	f.StringVarP(&annotateOut, "out", "o", "", "output directory for annotated files")
	f.BoolVarP(&annotateInPlace, "in-place", "i", false, "rewrite files in place")
	f.BoolVar(&annotateReport, "report", false, "list every hint on stderr")
	annotateCmd.MarkFlagsMutuallyExclusive("out", "in-place")
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	a, dict, err := openEngineApp(cmd, &annotateFlags)
	if err != nil {
		return err
	}
	defer a.Close()

	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		if len(args) == 0 && cmd.InOrStdin() == os.Stdin && !isStdinPipe() {
			return fmt.Errorf("no input: pass files or pipe text on stdin")
		}
		return annotateStream(cmd, a, dict, cmd.InOrStdin())
	}

	if annotateOut == "" && !annotateInPlace {
		if len(args) > 1 {
			return fmt.Errorf("several inputs need --out DIR or --in-place")
		}
		info, err := os.Stat(args[0])
		if err != nil {
			return err
		}
		if info.IsDir() {
			return fmt.Errorf("%s is a directory: pass --out DIR or --in-place", args[0])
		}
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		return annotateStream(cmd, a, dict, f)
	}

	jobs, err := collectAnnotateJobs(args, annotateOut)
	if err != nil {
		return err
	}
	reports, err := a.AnnotateFiles(cmd.Context(), jobs, dict)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.ErrOrStderr(), formatReports(reports, annotateReport))
	return nil
}

// annotateStream annotates one text from r onto stdout.
func annotateStream(cmd *cobra.Command, a *app.App, dict *hints.Dictionary, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	text := string(data)
	res := a.Annotate(text, dict)
	if _, err := io.WriteString(cmd.OutOrStdout(), res.Text); err != nil {
		return err
	}
	if annotateReport {
		fmt.Fprint(cmd.ErrOrStderr(), formatOccurrences(text, res.Occurrences))
	}
	return nil
}

// collectAnnotateJobs expands file and directory arguments. Files land
// directly under out; directory contents keep their relative layout.
// An empty out means in place. A repeated input is annotated once; two
// sources mapped to one destination are rejected.
func collectAnnotateJobs(args []string, out string) ([]app.FileJob, error) {
	var jobs []app.FileJob
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			dirJobs, err := app.CollectJobs(arg, out)
			if err != nil {
				return nil, err
			}
			jobs = append(jobs, dirJobs...)
			continue
		}
		src, err := filepath.Abs(arg)
		if err != nil {
			return nil, err
		}
		dst := src
		if out != "" {
			if dst, err = filepath.Abs(filepath.Join(out, filepath.Base(src))); err != nil {
				return nil, err
			}
		}
		jobs = append(jobs, app.FileJob{Src: src, Dst: dst})
	}

	srcOf := make(map[string]string, len(jobs))
	unique := jobs[:0]
	for _, j := range jobs {
		if prev, ok := srcOf[j.Dst]; ok {
			if prev != j.Src {
				return nil, fmt.Errorf("%s and %s would both be written to %s", prev, j.Src, j.Dst)
			}
			continue
		}
		srcOf[j.Dst] = j.Src
		unique = append(unique, j)
	}
	return unique, nil
}
