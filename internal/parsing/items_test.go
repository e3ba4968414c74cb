package parsing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ExtractItems", func() {
	var (
		lines []Line
		items []Item
	)

	JustBeforeEach(func() {
		items = ExtractItems(lines)
	})

	When("a name line is followed by a price line", func() {
		BeforeEach(func() {
			lines = textLines("Coffee", "1x 3.50")
		})

		It("pairs them into one item", func() {
			Expect(items).To(Equal([]Item{
				{Name: "Coffee", Quantity: 1, UnitPrice: 3.50, Total: 3.50},
			}))
		})
	})

	When("the price line carries a count prefix", func() {
		BeforeEach(func() {
			lines = textLines("Soap", "2x 1.50", "Shampoo", "4.00")
		})

		It("multiplies the price by the count", func() {
			Expect(items).To(HaveLen(2))
			Expect(items[0]).To(Equal(Item{Name: "Soap", Quantity: 2, UnitPrice: 1.50, Total: 3.00}))
		})

		It("consumes the price line and continues after it", func() {
			Expect(items[1]).To(Equal(Item{Name: "Shampoo", Quantity: 1, UnitPrice: 4.00, Total: 4.00}))
		})
	})

	When("a line holds name, quantity, unit price and total", func() {
		BeforeEach(func() {
			lines = textLines("Bread 2 2.00 4.00")
		})

		It("parses the line on its own", func() {
			Expect(items).To(Equal([]Item{
				{Name: "Bread", Quantity: 2, UnitPrice: 2.00, Total: 4.00},
			}))
		})
	})

	When("self-contained lines carry currency signs", func() {
		BeforeEach(func() {
			lines = textLines("Bread 2 $2.00 $4.00", "Milk 1 ฿35.00 ฿35.00")
		})

		It("reads the prices behind the signs", func() {
			Expect(items).To(Equal([]Item{
				{Name: "Bread", Quantity: 2, UnitPrice: 2.00, Total: 4.00},
				{Name: "Milk", Quantity: 1, UnitPrice: 35.00, Total: 35.00},
			}))
		})
	})

	When("a self-contained line has separators and a multi-word name", func() {
		BeforeEach(func() {
			lines = textLines("Green Tea 3 @ 1.20 3.60")
		})

		It("drops the separators from the name", func() {
			Expect(items).To(Equal([]Item{
				{Name: "Green Tea", Quantity: 3, UnitPrice: 1.20, Total: 3.60},
			}))
		})
	})

	When("a self-contained line has no total", func() {
		BeforeEach(func() {
			lines = textLines("Eggs x12 4.80")
		})

		It("derives the total from unit price and quantity", func() {
			Expect(items).To(HaveLen(1))
			Expect(items[0].Quantity).To(Equal(12))
			Expect(items[0].Total).To(Equal(items[0].UnitPrice * 12))
		})
	})

	When("a self-contained line has no quantity", func() {
		BeforeEach(func() {
			lines = textLines("Milk 2.50 1.25")
		})

		It("defaults the quantity to 1 and keeps the observed total", func() {
			Expect(items).To(Equal([]Item{
				{Name: "Milk", Quantity: 1, UnitPrice: 2.50, Total: 1.25},
			}))
		})
	})

	When("a line qualifies for both strategies", func() {
		BeforeEach(func() {
			lines = textLines("Milk 2.50 1.25", "Butter", "3.00")
		})

		It("uses the self-contained strategy and does not consume the next line", func() {
			Expect(items).To(HaveLen(2))
			Expect(items[0].Name).To(Equal("Milk"))
			Expect(items[1]).To(Equal(Item{Name: "Butter", Quantity: 1, UnitPrice: 3.00, Total: 3.00}))
		})
	})

	When("a self-contained line has no name", func() {
		BeforeEach(func() {
			lines = textLines("12.00 13.00")
		})

		It("emits nothing", func() {
			Expect(items).To(BeEmpty())
		})
	})

	When("the name line contains digits", func() {
		BeforeEach(func() {
			lines = textLines("xyz123", "4.99")
		})

		It("still treats it as a name", func() {
			Expect(items).To(Equal([]Item{
				{Name: "xyz123", Quantity: 1, UnitPrice: 4.99, Total: 4.99},
			}))
		})
	})

	When("the candidate name is digits and punctuation only", func() {
		BeforeEach(func() {
			lines = textLines("----", "3.00")
		})

		It("emits nothing", func() {
			Expect(items).To(BeEmpty())
		})
	})

	When("lines are too short", func() {
		BeforeEach(func() {
			lines = textLines("A", " ", "Tea", "1.00")
		})

		It("skips them", func() {
			Expect(items).To(Equal([]Item{
				{Name: "Tea", Quantity: 1, UnitPrice: 1.00, Total: 1.00},
			}))
		})
	})

	When("the last line is a name with nothing after it", func() {
		BeforeEach(func() {
			lines = textLines("Thank you")
		})

		It("emits nothing", func() {
			Expect(items).To(BeEmpty())
			Expect(items).NotTo(BeNil())
		})
	})

	When("there are no lines", func() {
		BeforeEach(func() {
			lines = nil
		})

		It("returns an empty list", func() {
			Expect(items).To(BeEmpty())
			Expect(items).NotTo(BeNil())
		})
	})
})
