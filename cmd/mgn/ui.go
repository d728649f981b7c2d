package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	stdinReader = bufio.NewReader(os.Stdin)
	accent      = color.New(color.FgCyan, color.Bold)
	success     = color.New(color.FgGreen, color.Bold)
	warn        = color.New(color.FgYellow, color.Bold)
	neutral     = color.New(color.FgHiWhite)
)

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printInfo(msg string) {
	neutral.Println(msg)
}

func promptRequired(label string) (string, error) {
	for {
		fmt.Printf("%s: ", label)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text != "" {
			return text, nil
		}
		printWarn(label + " is required.")
	}
}

func promptOptional(label string) (string, error) {
	fmt.Printf("%s: ", label)
	text, err := stdinReader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func renderPhase(out map[string]any) {
	accent.Printf("Turn %v | %v\n", out["turn_seq"], out["name"])
	if timerless, _ := out["timerless"].(bool); timerless {
		printInfo("Timerless game, no deadline.")
		return
	}
	if deadline, ok := out["deadline"].(string); ok {
		printInfo("Deadline: " + deadline)
	} else {
		printWarn("Phase has not been started yet.")
	}
}

func renderTrack(out map[string]any) {
	accent.Printf("%v track (%v)\n", out["resource_type"], out["scope"])
	prices, _ := out["prices"].([]any)
	position := int(toFloat(out["position"]))
	parts := make([]string, 0, len(prices))
	for i, p := range prices {
		label := fmt.Sprintf("$%v", p)
		if i == position {
			label = "[" + label + "]"
		}
		parts = append(parts, label)
	}
	printInfo(strings.Join(parts, " "))
	printInfo(fmt.Sprintf("Current price: $%v", out["current_price"]))
}

func renderEconomics(out map[string]any) {
	accent.Printf("%v\n", out["name"])
	printInfo(fmt.Sprintf("Status: %v | Cash: $%v | Brand: %v | Workers: %v", out["status"], out["cash"], out["brand"], out["workers"]))
	printInfo(fmt.Sprintf("Research marker %v (stage %v)", out["research_marker"], out["research_stage"]))

	factories, _ := out["factories"].([]any)
	if len(factories) == 0 {
		printInfo("No factories.")
	}
	for _, raw := range factories {
		f, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		state := "building"
		if operational, _ := f["operational"].(bool); operational {
			state = "operational"
		}
		printInfo(fmt.Sprintf("  Factory %v: size %v, %s, served %v, profit $%v",
			f["id"], f["size"], state, f["customers_served"], f["profit"]))
	}

	campaigns, _ := out["campaigns"].([]any)
	for _, raw := range campaigns {
		c, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		printInfo(fmt.Sprintf("  Campaign %v: tier %v slot %v, %v", c["id"], c["tier"], c["slot"], c["state"]))
	}
}

func toFloat(v any) float64 {
	f, _ := v.(float64)
	return f
}
