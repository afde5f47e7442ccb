package commands

import (
	"github.com/ncobase/accountdesk/guard"
	"github.com/spf13/cobra"
)

func newNavigateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "navigate [path]",
		Short: "Check where a page would take the current session",
		Long: `Resolve a page path through the route guard. Without a path, every page
is listed with whether the current session may open it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func(s *shell) error {
				if len(args) == 0 {
					return s.routes()
				}
				res := s.desk.Navigate(args[0])
				if err := s.out.Fields([][2]string{
					{"requested", res.Requested},
					{"page", res.Route.Title},
					{"requires", res.Route.Required.String()},
					{"outcome", res.Decision.Outcome.String()},
					{"destination", res.Path},
				}); err != nil {
					return err
				}
				if !res.Decision.Allowed() {
					s.out.Warning("Redirected to %s", res.Path)
				}
				return nil
			})
		},
	}
}

func (s *shell) routes() error {
	rows := make([][]string, 0, len(guard.Routes))
	for _, route := range guard.Routes {
		res := s.desk.Navigate(route.Path)
		rows = append(rows, []string{route.Path, route.Title, route.Required.String(), yesNo(res.Decision.Allowed())})
	}
	return s.out.Table([]string{"path", "page", "requires", "allowed"}, rows)
}
