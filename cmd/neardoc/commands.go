package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wolfman30/neardoc/internal/appointments"
	"github.com/wolfman30/neardoc/internal/domain"
	"github.com/wolfman30/neardoc/internal/notifications"
	"github.com/wolfman30/neardoc/internal/session"
)

var errNotLoggedIn = errors.New("not logged in; run `neardoc login` first")

func (c *cli) current() (session.Session, error) {
	s := c.runtime.Session.Current()
	if !s.LoggedIn() {
		return s, errNotLoggedIn
	}
	return s, nil
}

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func (c *cli) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("NEARDOC_PASSWORD")
			}
			route, err := c.runtime.API.Login(cmd.Context(), domain.LoginRequest{Email: email, Password: password})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s view)\n", c.runtime.Session.Current().UserID, route)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (or NEARDOC_PASSWORD)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.runtime.API.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.current()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user %s (%s)\n", s.UserID, s.UserType)
			return nil
		},
	}
}

func (c *cli) appointmentsCmd() *cobra.Command {
	var date, status, search, doctorID string
	cmd := &cobra.Command{
		Use:   "appointments",
		Short: "List appointments",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.current()
			if err != nil {
				return err
			}
			if doctorID == "" && s.IsDoctor() {
				doctorID = s.UserID
			}
			appts, err := c.runtime.API.Appointments(cmd.Context(), doctorID)
			if err != nil {
				return err
			}
			if date != "" {
				day, err := domain.ParseDate(date)
				if err != nil {
					return err
				}
				appts = appointments.OnDate(appts, day)
			}
			if status != "" {
				bucket, ok := domain.ParseStatus(status)
				if !ok {
					return fmt.Errorf("unknown status %q: use upcoming, \"in progress\" or completed", status)
				}
				appts = appointments.WithStatus(appts, bucket)
			}
			appts = appointments.Search(appts, search)

			w := table(cmd.OutOrStdout())
			fmt.Fprintln(w, "ID\tDATE\tTIME\tSTATUS\tPATIENT\tDOCTOR\tFEE")
			for _, a := range appts {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%.2f\n", a.ID, a.Date, a.Time, a.Status, a.PatientName, a.DoctorName, a.Fee)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "only this day (yyyy-MM-dd)")
	cmd.Flags().StringVar(&status, "status", "", "upcoming, \"in progress\" or completed")
	cmd.Flags().StringVar(&search, "search", "", "patient or doctor name contains")
	cmd.Flags().StringVar(&doctorID, "doctor", "", "doctor id (defaults to the signed-in doctor)")
	return cmd
}

func (c *cli) bookCmd() *cobra.Command {
	var doctorID, date, at, key string
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book an appointment for the signed-in patient",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.current()
			if err != nil {
				return err
			}
			day, err := domain.ParseDate(date)
			if err != nil {
				return err
			}
			req := domain.BookingRequest{DoctorID: doctorID, PatientID: s.UserID, Date: day, Time: at}
			var resp domain.BookingResponse
			if key != "" {
				resp, err = c.runtime.API.BookAppointmentWithKey(cmd.Context(), req, key)
			} else {
				resp, err = c.runtime.API.BookAppointment(cmd.Context(), req)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Booked appointment %s\n", resp.AppointmentID)
			return nil
		},
	}
	cmd.Flags().StringVar(&doctorID, "doctor", "", "doctor id")
	cmd.Flags().StringVar(&date, "date", "", "day (yyyy-MM-dd)")
	cmd.Flags().StringVar(&at, "time", "", "slot, e.g. \"09:00 AM\"")
	cmd.Flags().StringVar(&key, "idempotency-key", "", "reuse a key to retry a booking safely")
	_ = cmd.MarkFlagRequired("doctor")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("time")
	return cmd
}

func (c *cli) notificationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notifications",
		Short: "List notifications, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.current()
			if err != nil {
				return err
			}
			items, err := c.runtime.API.Notifications(cmd.Context(), s.IsDoctor())
			if err != nil {
				return err
			}
			inbox := notifications.NewInbox(items)
			w := table(cmd.OutOrStdout())
			fmt.Fprintf(w, "%d unread\n", inbox.UnreadCount())
			for _, n := range inbox.Items() {
				mark := " "
				if !n.IsRead {
					mark = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", mark, n.Date, n.Title, n.Message)
			}
			return w.Flush()
		},
	}
}

func (c *cli) doctorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctors",
		Short: "List doctors",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.current(); err != nil {
				return err
			}
			doctors, err := c.runtime.API.Doctors(cmd.Context())
			if err != nil {
				return err
			}
			w := table(cmd.OutOrStdout())
			fmt.Fprintln(w, "ID\tNAME\tSPECIALIZATION\tHOSPITAL\tRATING\tTODAY")
			for _, d := range doctors {
				today := "no"
				if d.AvailableToday() {
					today = "yes"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.1f\t%s\n", d.ID, d.Name, d.Specialization, d.Hospital, d.Rating, today)
			}
			return w.Flush()
		},
	}
}

func (c *cli) earningsCmd() *cobra.Command {
	var doctorID string
	cmd := &cobra.Command{
		Use:   "earnings",
		Short: "Show a doctor's earnings",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.current()
			if err != nil {
				return err
			}
			if doctorID == "" {
				doctorID = s.UserID
			}
			e, err := c.runtime.API.DoctorEarnings(cmd.Context(), doctorID)
			if err != nil {
				return err
			}
			w := table(cmd.OutOrStdout())
			fmt.Fprintf(w, "Today\t%.2f\nTotal\t%.2f\n\n", e.Today, e.Total)
			fmt.Fprintln(w, "DATE\tTIME\tPATIENT\tAMOUNT")
			for _, r := range e.Recent {
				fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\n", r.Date, r.Time, r.PatientName, r.Amount)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&doctorID, "doctor", "", "doctor id (defaults to the signed-in doctor)")
	return cmd
}

func (c *cli) historyCmd() *cobra.Command {
	var patientID string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show a patient's completed visits and prescriptions",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.current()
			if err != nil {
				return err
			}
			if patientID == "" {
				patientID = s.UserID
			}
			h, err := c.runtime.API.PatientHistory(cmd.Context(), patientID)
			if err != nil {
				return err
			}
			w := table(cmd.OutOrStdout())
			fmt.Fprintln(w, "VISITS")
			for _, a := range appointments.Completed(h.Appointments) {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.Date, a.Time, a.DoctorName, a.Specialization)
			}
			fmt.Fprintln(w, "\nPRESCRIPTIONS")
			for _, p := range h.Prescriptions {
				names := make([]string, 0, len(p.Medications))
				for _, m := range p.Medications {
					names = append(names, strings.TrimSpace(m.Name+" "+m.Dosage))
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", p.Date, p.DoctorName, strings.Join(names, ", "))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&patientID, "patient", "", "patient id (defaults to the signed-in patient)")
	return cmd
}
