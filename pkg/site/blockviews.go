package site

import (
	"fmt"
	"html/template"
	"strconv"

	"conference-site/pkg/blocks"
	"conference-site/pkg/content"
	"conference-site/pkg/models"
	"conference-site/pkg/umbraco"
)

const (
	defaultMatrixSize  = 48
	defaultMatrixTotal = 8420
)

// FAQItem is one question of an FAQ accordion
type FAQItem struct {
	ID       string
	Order    string
	Query    string
	Response template.HTML
}

// FormField is an input of a form block
type FormField struct {
	Name        string
	Label       string
	Placeholder string
	Type        string
	Multiline   bool
}

// Copy holds the CMS-editable labels of a block, with defaults applied
type Copy struct {
	Subtitle    string
	Headline    string
	Description string
	Button      string
	Success     string
	Note        string
	Status      []string
}

// Modal describes a briefing dialog and its metadata rows
type Modal struct {
	Label    string
	Title    string
	Subtitle string
	Report   string
	Author   string
	Speaker  string
	Date     string
	Node     string
	RefID    string
	Link     string
	LinkText string
}

func (r *Renderer) decorate(view *BlockView, data *models.SiteData) {
	props := umbraco.Properties(view.Properties)

	switch view.Alias {
	case "faqAccordion":
		view.Title = text(props, "title", "FREQUENT_SYSTEM_QUERIES_V.1")
		view.FAQs = faqItems(props.Value("faqs"))
		count, _ := strconv.Atoi(props.String("queryCount"))
		if count == 0 {
			count = len(view.FAQs)
		}
		view.QueryCount = fmt.Sprintf("%03d", count)

	case "talksArchive":
		view.Title = text(props, "title", "ARCHIVE_EXPLORER_V1.0")
		view.Events = displayEvents(data.Events)

	case "newsletterForm":
		view.Title = text(props, "title", "NETWORK_BROADCAST_SUBSCRIPTION_V.2")
		view.Copy = Copy{
			Headline:    text(props, "headline", "ENLIST_IN_THE_DATA_BURST."),
			Description: text(props, "description", "receive periodic technical telemetry, architectural breakthroughs, and node synchronization updates."),
			Button:      text(props, "buttonText", "[ ESTABLISH_LINK ]"),
			Success:     text(props, "successMessage", "LINK_ESTABLISHED_SUCCESSFULLY_>>>"),
			Status: []string{
				text(props, "encryptionText", "ENCRYPTION: AES_256_ACTIVE"),
				text(props, "zeroSpamText", "ZERO_SPAM_PROTOCOL_v.4"),
				text(props, "latencyText", "LATENCY: 12ms"),
			},
		}
		view.Fields = []FormField{{
			Name:        "email",
			Placeholder: text(props, "placeholderText", "ENTER_NODE_ENDPOINT_ADDRESS_"),
			Type:        "email",
		}}

	case "contactForm":
		view.Title = text(props, "title", "INDIA_CLUSTER_UPLINK_V.04")
		view.Copy = Copy{
			Subtitle: text(props, "subtitle", "Transmit_To_Cluster"),
			Button:   text(props, "broadcastButtonText", "[ BROADCAST_TO_CLUSTER ]"),
			Success:  text(props, "successTitle", "Packet_Distributed"),
			Note:     props.String("noteText"),
			Status: []string{
				text(props, "clusterRegion", "INDIA_IN_SUBCONTINENT"),
				text(props, "activeNodes", "4,512_IDENTIFIED"),
				text(props, "primaryNode", "KERALA_HUB_ACTIVE"),
			},
		}
		view.Fields = []FormField{
			{Name: "handle", Label: text(props, "nodeHandleLabel", "NODE_HANDLE"), Placeholder: text(props, "nodeHandlePlaceholder", "E.G. USER_99"), Type: "text"},
			{Name: "endpoint", Label: text(props, "returnEndpointLabel", "RETURN_ENDPOINT"), Placeholder: text(props, "returnEndpointPlaceholder", "MAIL@NODE.COM"), Type: "email"},
			{Name: "payload", Label: text(props, "dataPayloadLabel", "DATA_PAYLOAD"), Placeholder: text(props, "dataPayloadPlaceholder", "ENTER ENCRYPTED MESSAGE FOR THE CLUSTER..."), Multiline: true},
		}

	case "heroIntelModal":
		if view.Text == "" {
			view.Text = template.HTML(content.RenderRichText(props.Value("intelFeedContent")))
		}
		link, linkText := linkTarget(props.Value("intelUrl"))
		view.Modal = Modal{
			Label:    text(props, "classifiedLabel", "CLASSIFIED_INTEL"),
			Title:    text(props, "modalTitle", "UMBRACO_14_CORE"),
			Subtitle: props.String("modalSubtitle"),
			Report:   text(props, "technicalReportVersion", "TECHNICAL_REPORT_v.14.02"),
			Author:   text(props, "author", "KERALA_HUB_INTELLIGENCE"),
			Speaker:  props.String("speaker"),
			Date:     text(props, "date", "2024_Q4_SYNC"),
			Node:     text(props, "node", "TVM_MAIN_BACKBONE"),
			RefID:    text(props, "refId", "WRITING_UMBRACO_0x14_CORE"),
			Link:     link,
			LinkText: linkText,
		}

	case "appreciationMatrix":
		view.Title = text(props, "title", "APPRECIATION_MATRIX")
		view.Copy = Copy{
			Headline:    text(props, "headline", "Appreciate The_Core."),
			Description: text(props, "description", "transmit high-frequency appreciation pulses to the contributor cluster."),
			Button:      text(props, "resetButtonText", "[ RESET_LOCAL_ARRAY ]"),
			Status: []string{
				text(props, "protocolName", "PROTOCOL_NAME: APPRECIATION_MATRIX_v1.0"),
				text(props, "encryptionText", "ENCRYPTION: HEART_SECURE_v4"),
			},
		}
		size, _ := strconv.Atoi(props.String("gridSize"))
		if size <= 0 {
			size = defaultMatrixSize
		}
		view.Grid = make([]int, size)
		for i := range view.Grid {
			view.Grid[i] = i
		}
		view.Total, _ = strconv.Atoi(props.String("initialTotalAppreciation"))
		if view.Total == 0 {
			view.Total = defaultMatrixTotal
		}
	}
}

// text returns the string under key, or fallback when it is missing or empty
func text(p umbraco.Properties, key, fallback string) string {
	if s := p.String(key); s != "" {
		return s
	}
	return fallback
}

// faqItems reads FAQ entries from a nested block list or a plain array of
// objects with query, response and order properties.
func faqItems(raw any) []FAQItem {
	var entries []models.Block
	switch v := raw.(type) {
	case map[string]any:
		entries = blocks.InOrder(v)
	case []any:
		for _, e := range v {
			if m, ok := e.(map[string]any); ok {
				id, _ := m["id"].(string)
				entries = append(entries, models.Block{ID: id, Properties: m})
			}
		}
	}

	items := make([]FAQItem, 0, len(entries))
	for i, e := range entries {
		props := umbraco.Properties(e.Properties)
		id := e.ID
		if id == "" {
			id = fmt.Sprintf("faq-%d", i+1)
		}
		order, _ := strconv.Atoi(props.String("order"))
		items = append(items, FAQItem{
			ID:       id,
			Order:    fmt.Sprintf("%02d", order),
			Query:    props.String("query"),
			Response: template.HTML(content.RenderRichText(props.Value("response"))),
		})
	}
	return items
}

// linkTarget reads a link picker value: a bare URL, a {url, name} object or
// a list holding one.
func linkTarget(v any) (string, string) {
	const defaultText = "JOIN_SESSION"
	switch l := v.(type) {
	case string:
		return l, defaultText
	case map[string]any:
		url := umbraco.Properties(l).String("url")
		return url, text(umbraco.Properties(l), "name", text(umbraco.Properties(l), "title", defaultText))
	case []any:
		if len(l) > 0 {
			return linkTarget(l[0])
		}
	}
	return "", ""
}
