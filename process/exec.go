package process

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zeebo/errs"
)

var ErrProcess = errs.Class("process")

func init() {
	cobra.MousetrapHelpText = "reportd is a command line tool.\n\n" +
		"This needs to be run from a Command Prompt.\n"

	exe, err := os.Executable()
	if err == nil {
		cobra.MousetrapHelpText += fmt.Sprintf(
			"Try running \"%s help\" for more information\n", exe)
	}
}

// fileExists 文件不存在时返回 false, 其他错误原样返回
func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, ErrProcess.New("failed to check for file existence: %v", err)
}
