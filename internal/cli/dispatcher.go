package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/Veraticus/shopper-segments/internal/common"
	"github.com/Veraticus/shopper-segments/internal/likelihood"
)

// Estimator answers the three query modes. *likelihood.Analysis satisfies it.
type Estimator interface {
	Catalog() []string
	IsKnownItem(item string) bool
	HasCustomer(id int) bool
	Select(filter likelihood.Filter) []int
	GroupLikelihood(subset []int) (float64, error)
	CustomerLikelihood(ctx context.Context, customerID int, item string) (float64, error)
	BestItem(ctx context.Context, customerID int, progress func(item string, p float64)) (string, float64, error)
}

// Query modes offered by the menu.
const (
	ModeGroup    = "1"
	ModeBestItem = "2"
	ModeCustomer = "3"
)

// User-facing messages.
const (
	msgInvalidChoice    = "Invalid choice. Please select 1, 2, or 3."
	msgInvalidNumbers   = "Invalid input. Please enter valid numeric values."
	msgInvalidCustomer  = "Invalid input. Please enter a numeric Customer ID."
	msgInvalidGender    = "Invalid gender. Please enter 0 for Female or 1 for Male."
	msgInvalidItem      = "Invalid item. Please select an item from the list."
	msgNotClustered     = "Customers have not been clustered yet. Run the clustering step before asking for a likelihood."
	msgCustomerNotFound = "Customer ID %d not found."
)

// Dispatcher runs exactly one query per Run call.
type Dispatcher struct {
	reader     *NonBlockingReader
	writer     io.Writer
	estimator  Estimator
	interrupts *InterruptHandler
	progress   bool
}

// NewDispatcher creates a dispatcher reading answers from reader.
func NewDispatcher(reader io.Reader, writer io.Writer, estimator Estimator) *Dispatcher {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Dispatcher{
		reader:    NewNonBlockingReader(reader),
		writer:    writer,
		estimator: estimator,
		progress:  true,
	}
}

// WithInterruptHandler lets the handler know when training is underway.
func (d *Dispatcher) WithInterruptHandler(h *InterruptHandler) *Dispatcher {
	d.interrupts = h
	return d
}

// WithProgress toggles the best-item progress bar.
func (d *Dispatcher) WithProgress(enabled bool) *Dispatcher {
	d.progress = enabled
	return d
}

// Run prints the menu, reads a choice and performs that query. Invalid
// input and lookup misses are reported to the writer and yield nil; only
// I/O failures, cancellation and unexpected estimator errors are returned.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.println(FormatTitle("Choose an option:"))
	d.println("1: Likelihood of purchase by age range")
	d.println("2: Find the best item for a specific customer")
	d.println("3: Likelihood of purchase for a specific item by a customer")

	choice, err := d.ask(ctx, "Enter your choice (1, 2, or 3):")
	if err != nil {
		return err
	}

	switch choice {
	case ModeGroup:
		err = d.groupLikelihood(ctx)
	case ModeBestItem:
		err = d.bestItem(ctx)
	case ModeCustomer:
		err = d.customerLikelihood(ctx)
	default:
		d.println(FormatWarning(msgInvalidChoice))
		return nil
	}

	return d.report(err)
}

func (d *Dispatcher) groupLikelihood(ctx context.Context) error {
	d.println(BoldStyle.Render("Available options for input:"))
	d.println("1. Age range: Enter the start and end age of the range separately.")
	d.println("2. Gender: Enter the gender (0 for Female, 1 for Male, press Enter to skip).")
	d.println("3. Item: Enter the item name you want to analyze (optional).")
	d.println("   Items:")
	d.printCatalog()

	startAge, err := d.askInt(ctx, "Enter the start age of the range:", msgInvalidNumbers)
	if err != nil {
		return err
	}
	endAge, err := d.askInt(ctx, "Enter the end age of the range:", msgInvalidNumbers)
	if err != nil {
		return err
	}

	filter := likelihood.Filter{MinAge: startAge, MaxAge: endAge}

	genderInput, err := d.ask(ctx, "Enter gender (0 for Female, 1 for Male, press Enter to skip):")
	if err != nil {
		return err
	}
	if genderInput != "" {
		if genderInput != "0" && genderInput != "1" {
			return common.NewUserError(msgInvalidGender, common.ErrInvalidInput)
		}
		gender, _ := strconv.Atoi(genderInput)
		filter.Gender = &gender
	}

	item, err := d.ask(ctx, "Enter the item you want to analyze (optional, press Enter to skip):")
	if err != nil {
		return err
	}
	filter.Item = strings.ToLower(item)

	d.println(FormatInfo("Calculating..."))
	subset := d.estimator.Select(filter)
	p, err := d.estimator.GroupLikelihood(subset)
	if err != nil {
		return err
	}

	slog.Debug("Group likelihood computed", "matches", len(subset), "likelihood", p)
	d.println(FormatSuccess(fmt.Sprintf("Likelihood of purchase for age range %d-%d: %.2f", startAge, endAge, p)))
	return nil
}

func (d *Dispatcher) bestItem(ctx context.Context) error {
	customerID, err := d.askInt(ctx, "Enter the Customer ID:", msgInvalidCustomer)
	if err != nil {
		return err
	}

	d.println(FormatInfo("Calculating..."))
	if !d.estimator.HasCustomer(customerID) {
		return notFound(customerID)
	}

	var bar *progressbar.ProgressBar
	if d.progress {
		bar = d.newProgressBar(len(d.estimator.Catalog()))
	}

	d.setTraining(true)
	item, p, err := d.estimator.BestItem(ctx, customerID, func(string, float64) {
		if bar != nil {
			_ = bar.Add(1)
		}
	})
	d.setTraining(false)
	if err != nil {
		return err
	}

	d.println(FormatSuccess(fmt.Sprintf("Customer %d is most likely to purchase: %s", customerID, item)))
	d.println(FormatSuccess(fmt.Sprintf("Likelihood of purchase: %.2f", p)))
	return nil
}

func (d *Dispatcher) customerLikelihood(ctx context.Context) error {
	d.println(BoldStyle.Render("Available items for input (or type the item name directly):"))
	d.printCatalog()

	item, err := d.ask(ctx, "Enter the item name you want to analyze:")
	if err != nil {
		return err
	}
	if !d.estimator.IsKnownItem(item) {
		return common.NewUserError(msgInvalidItem, common.ErrUnknownItem)
	}

	customerID, err := d.askInt(ctx, "Enter the Customer ID:", msgInvalidNumbers)
	if err != nil {
		return err
	}

	d.println(FormatInfo("Calculating..."))
	d.setTraining(true)
	p, err := d.estimator.CustomerLikelihood(ctx, customerID, item)
	d.setTraining(false)
	if errors.Is(err, common.ErrCustomerNotFound) {
		return notFound(customerID)
	}
	if err != nil {
		return err
	}

	d.println(FormatSuccess(fmt.Sprintf("Likelihood of customer %d purchasing %s: %.2f", customerID, item, p)))
	return nil
}

// report prints recoverable errors and swallows them.
func (d *Dispatcher) report(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, common.ErrClusteringNotPerformed) {
		d.println(FormatError(msgNotClustered))
		return nil
	}
	if common.IsRecoverable(err) {
		d.println(FormatWarning(common.UserMessage(err)))
		return nil
	}
	return err
}

func (d *Dispatcher) ask(ctx context.Context, prompt string) (string, error) {
	if _, err := fmt.Fprint(d.writer, FormatPrompt(prompt)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}
	answer, err := d.reader.ReadLine(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	return answer, nil
}

// askInt reads an integer, turning anything else into a recoverable error
// carrying invalid.
func (d *Dispatcher) askInt(ctx context.Context, prompt, invalid string) (int, error) {
	answer, err := d.ask(ctx, prompt)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(answer)
	if err != nil {
		return 0, common.NewUserError(invalid, fmt.Errorf("%w: %q", common.ErrInvalidInput, answer))
	}
	return n, nil
}

func (d *Dispatcher) printCatalog() {
	for idx, item := range d.estimator.Catalog() {
		d.println(fmt.Sprintf("   %d: %s", idx+1, item))
	}
}

func (d *Dispatcher) newProgressBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(d.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Scoring items...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(d.writer); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}

func (d *Dispatcher) setTraining(training bool) {
	if d.interrupts != nil {
		d.interrupts.SetTraining(training)
	}
}

func (d *Dispatcher) println(line string) {
	if _, err := fmt.Fprintln(d.writer, line); err != nil {
		slog.Warn("Failed to write output", "error", err)
	}
}

func notFound(customerID int) error {
	return common.NewUserError(
		fmt.Sprintf(msgCustomerNotFound, customerID),
		fmt.Errorf("%w: %d", common.ErrCustomerNotFound, customerID),
	)
}
