package tooltip

import "fmt"

// ClassName is the CSS class of the overlay element in HTML output.
const ClassName = "tooltip"

// CSS styles the overlay element. Positioning is left to Script.
const CSS = `
    .tooltip { position: absolute; display: none; pointer-events: none;
      padding: 4px 8px; border-radius: 3px; font: 12px sans-serif;
      background: rgba(0, 0, 0, 0.8); color: #fff; white-space: nowrap; }`

const scriptJS = `
    (function () {
      const tip = document.querySelector('.%s');
      if (!tip) return;
      document.querySelectorAll('[data-tooltip]').forEach(el => {
        el.addEventListener('mouseenter', ev => {
          const width = document.body.getBoundingClientRect().width;
          tip.textContent = el.dataset.tooltip;
          tip.style.display = 'inline';
          tip.style.top = (ev.pageY + %g) + 'px';
          if (ev.pageX < width / 2) {
            tip.style.left = (ev.pageX + %g) + 'px';
            tip.style.right = '';
          } else {
            tip.style.left = '';
            tip.style.right = (width - ev.pageX + %g) + 'px';
          }
        });
        el.addEventListener('mouseleave', () => { tip.style.display = 'none'; });
      });
    })();`

// Script returns the browser-side equivalent of [Attach] and [Place]. It
// binds every element carrying a data-tooltip attribute to the single
// element of class [ClassName].
func Script() string {
	return fmt.Sprintf(scriptJS, ClassName, OffsetY, OffsetX, OffsetX)
}
