package parsing

import (
	"encoding/json"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Parser", func() {
	var (
		parser *Parser
		doc    *Document
		result *Result
	)

	BeforeEach(func() {
		parser = NewParser(nil)
	})

	JustBeforeEach(func() {
		result = parser.Parse(doc)
	})

	When("a name line is followed by a count and price", func() {
		BeforeEach(func() {
			doc = &Document{Text: "Coffee\n1x 3.50"}
		})

		It("extracts the item", func() {
			Expect(result.Items).To(Equal([]Item{
				{Name: "Coffee", Quantity: 1, UnitPrice: 3.50, Total: 3.50},
			}))
		})

		It("resolves the total from the receipt foot", func() {
			Expect(result.TotalAmount).To(Equal(3.50))
			Expect(result.TotalSource).To(Equal("trailing"))
		})

		It("returns the flat text", func() {
			Expect(result.RawText).To(Equal("Coffee\n1x 3.50"))
		})
	})

	When("one line carries the whole item", func() {
		BeforeEach(func() {
			doc = &Document{Text: "Bread 2 2.00 4.00"}
		})

		It("extracts the item", func() {
			Expect(result.Items).To(Equal([]Item{
				{Name: "Bread", Quantity: 2, UnitPrice: 2.00, Total: 4.00},
			}))
		})
	})

	When("a total line is near the bottom", func() {
		BeforeEach(func() {
			doc = &Document{Text: "Coffee\n1x 3.50\nBread 2 2.00 4.00\nTotal 12.50"}
		})

		It("uses it regardless of the item sum", func() {
			Expect(result.TotalAmount).To(Equal(12.50))
			Expect(result.TotalSource).To(Equal("keyword"))
		})
	})

	When("prices carry currency signs", func() {
		BeforeEach(func() {
			doc = &Document{Text: "Bread 2 $2.00 $4.00\nMilk 1 ฿35.00 ฿35.00"}
		})

		It("extracts the items", func() {
			Expect(result.ItemCount).To(Equal(2))
			Expect(result.Items[1]).To(Equal(Item{Name: "Milk", Quantity: 1, UnitPrice: 35.00, Total: 35.00}))
		})

		It("sums them", func() {
			Expect(result.TotalAmount).To(Equal(39.00))
		})
	})

	DescribeTable("total lines with a currency sign or label",
		func(totalLine string) {
			result := parser.Parse(&Document{Text: "Coffee\n3.50\n" + totalLine})
			Expect(result.TotalAmount).To(Equal(12.50))
			Expect(result.TotalSource).To(Equal("keyword"))
		},
		Entry("dollar sign", "Total $12.50"),
		Entry("label glued to the price", "TOTAL:12.50"),
		Entry("currency code suffix", "Total 12.50THB"),
	)

	When("a footer mentions a keyword without a price", func() {
		BeforeEach(func() {
			doc = &Document{Text: "Coffee\n3.50\nTea\n4.00\nSubtotal 20.00\nThank you for the amount"}
		})

		It("uses the keyword line above it", func() {
			Expect(result.TotalAmount).To(Equal(20.00))
			Expect(result.TotalSource).To(Equal("keyword"))
		})
	})

	When("nothing looks like a price", func() {
		BeforeEach(func() {
			doc = &Document{Text: "Thank you\nCome again"}
		})

		It("returns an empty result", func() {
			Expect(result.Items).To(BeEmpty())
			Expect(result.ItemCount).To(BeZero())
			Expect(result.TotalAmount).To(BeZero())
			Expect(result.TotalSource).To(Equal("zero"))
		})
	})

	When("the name line contains digits", func() {
		BeforeEach(func() {
			doc = &Document{Text: "xyz123\n4.99"}
		})

		It("extracts the item", func() {
			Expect(result.Items).To(Equal([]Item{
				{Name: "xyz123", Quantity: 1, UnitPrice: 4.99, Total: 4.99},
			}))
		})
	})

	When("only item totals are available", func() {
		BeforeEach(func() {
			doc = &Document{Text: "Pen 1 0.10 0.10\nInk 1 0.20 0.20"}
		})

		It("sums them and rounds to cents", func() {
			Expect(result.TotalSource).To(Equal("items_sum"))
			Expect(result.TotalAmount).To(Equal(0.3))
		})
	})

	When("the document has a layout", func() {
		BeforeEach(func() {
			doc = &Document{
				Text: "Coffee\nTea\n2.00\n3.50",
				Pages: []Page{{
					Blocks: []Block{
						{Paragraphs: []Paragraph{
							paragraph("Coffee", 0, 100, 80, 120),
							paragraph("3.50", 0, 125, 40, 145),
						}},
						{Paragraphs: []Paragraph{
							paragraph("Tea", 0, 10, 80, 30),
							paragraph("2.00", 0, 35, 40, 55),
						}},
					},
				}},
			}
		})

		It("orders items top to bottom", func() {
			Expect(result.Items).To(HaveLen(2))
			Expect(result.Items[0].Name).To(Equal("Tea"))
			Expect(result.Items[1].Name).To(Equal("Coffee"))
		})
	})

	When("the layout is empty", func() {
		BeforeEach(func() {
			doc = &Document{Text: "Cake\n5.00", Pages: []Page{{}}}
		})

		It("falls back to the flat text", func() {
			Expect(result.Items).To(HaveLen(1))
			Expect(result.Items[0].Name).To(Equal("Cake"))
		})
	})

	When("the document is nil", func() {
		BeforeEach(func() {
			doc = nil
		})

		It("returns an empty result", func() {
			Expect(result.Items).To(BeEmpty())
			Expect(result.RawText).To(BeEmpty())
			Expect(result.TotalAmount).To(BeZero())
		})
	})

	When("custom total keywords are configured", func() {
		BeforeEach(func() {
			parser = NewParser([]string{"summe"})
			doc = &Document{Text: "Brot\n2.00\nSumme 2.00\nTotal 99.00"}
		})

		It("uses only the configured keywords", func() {
			Expect(result.TotalAmount).To(Equal(2.00))
		})
	})

	Describe("result properties", func() {
		BeforeEach(func() {
			doc = &Document{Text: "SHOP 42\n12/05/2024 10:31\nCoffee\n2x 3.50\nBread 2 2.00 4.00\n" +
				"Eggs x12 0.35\nWater\n1,250.00\nTotal 1,265.20\nTel 0812345678"}
		})

		It("counts the items", func() {
			Expect(result.ItemCount).To(Equal(len(result.Items)))
		})

		It("keeps quantities and prices in range", func() {
			for _, item := range result.Items {
				Expect(item.Name).NotTo(BeEmpty())
				Expect(item.Quantity).To(BeNumerically(">=", 1))
				Expect(item.Quantity).To(BeNumerically("<=", 999))
				Expect(item.UnitPrice).To(BeNumerically(">=", 0.01))
				Expect(item.UnitPrice).To(BeNumerically("<=", 999999))
			}
		})

		It("rounds the total to cents", func() {
			Expect(math.Round(result.TotalAmount*100) / 100).To(Equal(result.TotalAmount))
		})

		It("is deterministic", func() {
			Expect(parser.Parse(doc)).To(Equal(result))
		})
	})

	Describe("roundAmount", func() {
		It("rounds half away from zero on the printed amount", func() {
			Expect(roundAmount(2.675)).To(Equal(2.68))
			Expect(roundAmount(2.665)).To(Equal(2.67))
		})

		It("removes float noise", func() {
			Expect(roundAmount(0.1 + 0.2)).To(Equal(0.3))
		})
	})

	Describe("JSON output", func() {
		BeforeEach(func() {
			doc = &Document{Text: "nothing here"}
		})

		It("uses the output field names and an empty item array", func() {
			data, err := json.Marshal(result)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(MatchJSON(`{"items":[],"total_amount":0,"item_count":0,"raw_text":"nothing here"}`))
		})
	})
})
