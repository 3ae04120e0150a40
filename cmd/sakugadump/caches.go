package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sakuga-dev/sakuga/bone"
	"github.com/sakuga-dev/sakuga/timeline"
)

var cachesCmd = &cobra.Command{
	Use:   "caches <file>",
	Short: "Print the influence cache table of every bone key",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runCaches(args[0]); err != nil {
			slog.Error("caches failed", "file", args[0], "error", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(cachesCmd)
}

func runCaches(filename string) error {
	root, err := loadDocument(filename)
	if err != nil {
		return err
	}

	for it := timeline.NewIterator(root); it.HasNext(); {
		n := it.Next()
		tl := n.TimeLine()
		if tl == nil {
			continue
		}
		tl.Map(timeline.TypeBone).Each(func(frame int, k timeline.Key) bool {
			bk, ok := k.(*bone.Key)
			if !ok {
				return true
			}
			owner := "(unresolved)"
			if o := bk.CacheOwner(); o != nil {
				owner = o.Name()
			}
			fmt.Printf("%s @ frame %d  owner=%s  caches=%d\n",
				n.Name(), frame, owner, len(bk.Caches()))
			for i, c := range bk.Caches() {
				node := "(unresolved)"
				if cn := c.Node(); cn != nil {
					node = cn.Name()
				}
				fmt.Printf("  #%d node=%s sign=%d vertices=%d\n",
					i, node, c.FrameSign(), c.Influence().VertexCount())
			}
			return true
		})
	}
	return nil
}
