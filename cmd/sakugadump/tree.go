package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sakuga-dev/sakuga"
	"github.com/sakuga-dev/sakuga/bone"
	"github.com/sakuga-dev/sakuga/timeline"
)

var treeCmd = &cobra.Command{
	Use:   "tree <file>",
	Short: "Print the object tree and its bone forests",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runTree(args[0]); err != nil {
			slog.Error("tree failed", "file", args[0], "error", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(treeCmd)
}

func loadDocument(filename string) (*timeline.Node, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filename, err)
	}
	defer f.Close()
	return sakuga.ReadDocument(f)
}

func runTree(filename string) error {
	root, err := loadDocument(filename)
	if err != nil {
		return err
	}
	printNode(root, 0)
	return nil
}

func printNode(n *timeline.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	attrs := []string{fmt.Sprintf("depth=%g", n.Depth()), "blend=" + n.BlendMode().String()}
	if n.Clipped() {
		attrs = append(attrs, "clipped")
	}
	if n.Folded() {
		attrs = append(attrs, "folded")
	}
	fmt.Printf("%s%s (%s)\n", indent, n.Name(), strings.Join(attrs, " "))

	if tl := n.TimeLine(); tl != nil {
		tl.Map(timeline.TypeBone).Each(func(frame int, k timeline.Key) bool {
			if bk, ok := k.(*bone.Key); ok {
				fmt.Printf("%s  [bone key @ frame %d]\n", indent, frame)
				for _, top := range bk.Data().TopBones() {
					printBone(top, depth+2)
				}
			}
			return true
		})
	}

	for _, c := range n.Children() {
		printNode(c, depth+1)
	}
}

func printBone(b *bone.Bone, depth int) {
	pos := b.LocalPos()
	fmt.Printf("%s- %s pos=(%g, %g) angle=%g\n",
		strings.Repeat("  ", depth), b.Name(), pos.X(), pos.Y(), b.LocalAngle())
	for _, c := range b.Children() {
		printBone(c, depth+1)
	}
}
